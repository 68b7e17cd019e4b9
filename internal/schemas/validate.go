// Package schemas validates structured model output against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed ai/*.json
var schemaFiles embed.FS

// Names of the embedded schemas.
const (
	Skills          = "skills"
	Tags            = "tags"
	Sentiment       = "sentiment"
	Recommendations = "recommendations"
	JobDraft        = "job_draft"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks jsonContent against the embedded schema called name.
// Malformed JSON is reported as a *SchemaLoadError naming the document.
func Validate(name, jsonContent string) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{
			Path:    "(document)",
			Message: "document is not valid JSON",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	path := "ai/" + name + ".json"
	data, err := schemaFiles.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "schema not embedded", Cause: err}
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
