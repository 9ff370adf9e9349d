package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schema names an embedded JSON Schema.
type Schema string

const (
	SchemaRider Schema = "rider"
	SchemaVenue Schema = "venue"
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

var (
	compileOnce sync.Once
	compiled    map[Schema]*gojsonschema.Schema
	compileErr  error
)

func loadSchemas() (map[Schema]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[Schema]*gojsonschema.Schema)
		for _, name := range []Schema{SchemaRider, SchemaVenue} {
			raw, err := schemaFS.ReadFile("schemas/" + string(name) + ".schema.json")
			if err != nil {
				compileErr = fmt.Errorf("read %s schema: %w", name, err)
				return
			}
			s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// Validate checks a Go value (map, struct or decoded JSON) against schema.
func Validate(schema Schema, document interface{}) (*ValidationResult, error) {
	return validate(schema, gojsonschema.NewGoLoader(document))
}

// ValidateJSON checks raw JSON bytes against schema.
func ValidateJSON(schema Schema, data []byte) (*ValidationResult, error) {
	return validate(schema, gojsonschema.NewBytesLoader(data))
}

func validate(schema Schema, document gojsonschema.JSONLoader) (*ValidationResult, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	s, ok := schemas[schema]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", schema)
	}

	result, err := s.Validate(document)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// Summary joins all messages into one line.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}
