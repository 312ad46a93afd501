// Package validation checks configuration and CLI input before any request
// is issued.
//
// Struct tag validation (go-playground/validator) covers configuration
// structs such as rest.Config:
//
//	type Config struct {
//	    BaseURL      string `validate:"required,url"`
//	    ResourceName string `validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// The fluent Validator collects field errors for ad-hoc input:
//
//	v := validation.New()
//	v.Required("resource", name).AbsoluteURL("base_url", base)
//	if err := v.Validate(); err != nil { ... }
//
// Both return *errors.AppError with code INVALID_INPUT and the failing
// fields under Details["fields"].
package validation
