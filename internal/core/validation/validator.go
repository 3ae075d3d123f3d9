package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Validator checks API payloads against JSON schemas. Compiled schemas are
// not cached; payloads are small and schemas are few.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(doc []byte, schema map[string]interface{}) error {
	if len(schema) == 0 {
		// No schema defined, allow any payload
		return nil
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

// ValidateRows validates a JSON array whose items must each match itemSchema.
func (v *Validator) ValidateRows(doc []byte, itemSchema map[string]interface{}) error {
	if len(itemSchema) == 0 {
		return v.ValidateJSON(doc, map[string]interface{}{"type": "array"})
	}
	return v.ValidateJSON(doc, map[string]interface{}{
		"type":  "array",
		"items": itemSchema,
	})
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Object builds an object schema with the given required keys and property types.
func Object(required []string, properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}

// Nullable returns a property schema accepting typ or null.
func Nullable(typ string) map[string]interface{} {
	return map[string]interface{}{"type": []string{typ, "null"}}
}

// Type returns a property schema of a single JSON type.
func Type(typ string) map[string]interface{} {
	return map[string]interface{}{"type": typ}
}
