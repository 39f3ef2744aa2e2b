package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidType          = "INVALID_TYPE"
)

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// RequiredKeysSchema builds a schema that only checks the document is an
// object carrying every key in keys. Value shapes are not checked.
func RequiredKeysSchema(keys ...string) (*Schema, error) {
	required := make([]interface{}, len(keys))
	for i, k := range keys {
		required[i] = k
	}
	return Compile(map[string]interface{}{
		"type":     "object",
		"required": required,
	})
}

// MustRequiredKeysSchema is RequiredKeysSchema for package-level schemas.
func MustRequiredKeysSchema(keys ...string) *Schema {
	s, err := RequiredKeysSchema(keys...)
	if err != nil {
		panic(err)
	}
	return s
}

func Compile(schema map[string]interface{}) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: compiled}, nil
}

// Validate checks an already-decoded JSON document.
func (s *Schema) Validate(document interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, toValidationError(desc))
	}
	return out, nil
}

func toValidationError(desc gojsonschema.ResultError) ValidationError {
	switch desc.Type() {
	case "required":
		field, _ := desc.Details()["property"].(string)
		return ValidationError{
			Field:   field,
			Message: "required field missing",
			Code:    CodeRequiredFieldMissing,
		}
	case "invalid_type":
		return ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    CodeInvalidType,
		}
	}
	return ValidationError{
		Field:   desc.Field(),
		Message: desc.Description(),
		Code:    strings.ToUpper(desc.Type()),
	}
}

// MissingFields lists the required keys the document lacked.
func (vr *ValidationResult) MissingFields() []string {
	var fields []string
	for _, err := range vr.Errors {
		if err.Code == CodeRequiredFieldMissing {
			fields = append(fields, err.Field)
		}
	}
	return fields
}
