// Package schema validates raw JSON resumes and API request bodies against
// the embedded JSON Schemas before they are decoded.
package schema

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"resumeforge/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Kind names an embedded schema
type Kind string

const (
	Resume       Kind = "resume"
	ScoreRequest Kind = "score_request"
	MatchRequest Kind = "match_request"
)

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Kind   Kind
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:\n", ve.Kind)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
	}
	return sb.String()
}

var compiled = sync.OnceValues(compileAll)

func compileAll() (map[Kind]*gojsonschema.Schema, error) {
	raw := make(map[Kind]gojsonschema.JSONLoader)
	for _, kind := range []Kind{Resume, ScoreRequest, MatchRequest} {
		data, err := schemaFS.ReadFile("schemas/" + string(kind) + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s schema: %w", kind, err)
		}
		raw[kind] = gojsonschema.NewBytesLoader(data)
	}

	out := make(map[Kind]*gojsonschema.Schema, len(raw))
	for kind, root := range raw {
		sl := gojsonschema.NewSchemaLoader()
		if kind != Resume {
			if err := sl.AddSchemas(raw[Resume]); err != nil {
				return nil, fmt.Errorf("failed to register resume schema: %w", err)
			}
		}
		s, err := sl.Compile(root)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", kind, err)
		}
		out[kind] = s
	}
	return out, nil
}

// Validate checks a JSON document against the named schema. Unparseable
// input yields INVALID_FORMAT; schema violations yield SCHEMA_VIOLATION with
// the offending fields in the error context.
func Validate(kind Kind, data []byte) error {
	schemas, err := compiled()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeSchemaLoad, "Failed to load embedded schemas", err)
	}
	s, ok := schemas[kind]
	if !ok {
		return errors.NewInternalError(errors.ErrCodeSchemaLoad, fmt.Sprintf("Unknown schema: %s", kind), nil)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "Input is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{
		Kind:   kind,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fe := FieldError{Field: field, Message: desc.Description()}
		verr.Errors = append(verr.Errors, fe)
		fields = append(fields, fe.String())
	}

	return errors.NewValidationError(errors.ErrCodeSchemaViolation,
		fmt.Sprintf("Input does not match the %s schema", kind), verr).
		WithContext("fields", fields)
}

// FieldErrors extracts the field-level failures from a Validate error
func FieldErrors(err error) []FieldError {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return nil
	}
	if verr, ok := appErr.Cause.(*ValidationError); ok {
		return verr.Errors
	}
	return nil
}
