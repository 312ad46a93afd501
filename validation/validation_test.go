package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/restkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("resource", "items")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("resource", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("resource", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorAbsoluteURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty skipped", "", false},
		{"http", "http://localhost:8080/api", false},
		{"https", "https://example.com", false},
		{"relative", "/api", true},
		{"no scheme", "example.com/api", true},
		{"ftp", "ftp://example.com", true},
		{"unparsable", "http://[::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New().AbsoluteURL("base_url", tt.value)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, v.Errors())
			}
		})
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("method", "patch", []string{"PUT", "PATCH"})
	if v.HasErrors() {
		t.Error("expected case-insensitive match")
	}

	v2 := New()
	v2.OneOf("method", "POST", []string{"PUT", "PATCH"})
	if !v2.HasErrors() {
		t.Error("expected error for value outside the allowed set")
	}

	v3 := New()
	v3.OneOf("method", "", []string{"PUT"})
	if v3.HasErrors() {
		t.Error("expected no error for empty value")
	}
}

func TestValidatorKeyValue(t *testing.T) {
	v := New().KeyValue("header", []string{"X-A=1", "X-B=", "X-C=a=b"})
	if v.HasErrors() {
		t.Errorf("expected valid entries, got %v", v.Errors())
	}

	v2 := New().KeyValue("header", []string{"novalue", "=x"})
	if len(v2.Errors()) != 2 {
		t.Errorf("expected 2 errors, got %v", v2.Errors())
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(false, "field", "custom error")
	if !v.HasErrors() {
		t.Fatal("expected error for false condition")
	}
	if v.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Required("name", "x").Validate(); appErr != nil {
		t.Errorf("expected nil for valid input, got %v", appErr)
	}

	appErr := New().Required("resource", "").AbsoluteURL("base_url", "nope").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", errors.ErrCodeInvalidInput, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "resource") || !strings.Contains(appErr.Message, "base_url") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("name", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("name", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

func TestIsHTTPMethod(t *testing.T) {
	for _, m := range []string{"GET", "put", "Patch", "DELETE"} {
		if !IsHTTPMethod(m) {
			t.Errorf("expected %q to be a method", m)
		}
	}
	for _, m := range []string{"", "FETCH", "CONNECTX"} {
		if IsHTTPMethod(m) {
			t.Errorf("expected %q not to be a method", m)
		}
	}
}

type resourceConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	ResourceName string `mapstructure:"resource_name" validate:"required"`
	Method       string `json:"method" validate:"omitempty,httpmethod"`
	Format       string `validate:"omitempty,oneof=json yaml"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(resourceConfig{BaseURL: "http://localhost/api", ResourceName: "items", Method: "patch"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(resourceConfig{BaseURL: "not a url", Method: "FETCH", Format: "xml"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	for _, want := range []string{
		"base_url: must be a valid URL",
		"resource_name: is required",
		"method: must be an HTTP method",
		"format: must be one of: json yaml",
	} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected message to contain %q, got %q", want, appErr.Message)
		}
	}
}

func TestStructValidateNonStruct(t *testing.T) {
	if err := Validate("plain string"); err == nil {
		t.Error("expected error for non-struct input")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("ResourceName"); got != "resource_name" {
		t.Errorf("expected resource_name, got %s", got)
	}
}
