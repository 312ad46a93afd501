package rest

import "testing"

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		opts     *Options
		segments []string
		want     string
	}{
		{"base only", "api/items", nil, nil, "api/items"},
		{"empty options", "api/items", &Options{}, nil, "api/items"},
		{"id segment", "api/items", nil, []string{"5"}, "api/items/5"},
		{"several segments", "api/items", nil, []string{"5", "tags"}, "api/items/5/tags"},
		{"postfix", "api/items", &Options{URLPostfix: "bulk"}, nil, "api/items/bulk"},
		{"segment then postfix", "api/items", &Options{URLPostfix: "history"}, []string{"5"}, "api/items/5/history"},
		{"override wins", "api/items", &Options{URL: "https://other/x", URLPostfix: "bulk"}, []string{"5"}, "https://other/x"},
		{"no normalization", "api/items/", &Options{URLPostfix: "/x"}, []string{""}, "api/items///x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.opts, tt.segments...); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfigURL(t *testing.T) {
	cfg := Config{BaseURL: "https://api.example.com/v1", ResourceName: "items"}
	if got := cfg.URL(); got != "https://api.example.com/v1/items" {
		t.Errorf("expected joined URL, got %q", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if err := (Config{BaseURL: "x"}).Validate(); err == nil {
		t.Error("expected error for missing resource_name")
	}
}
