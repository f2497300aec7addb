package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator checks the structured JSON returned by the generative
// AI providers before it is surfaced to clients.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

const (
	SchemaStudySummary    = "study-summary"
	SchemaStudyQuiz       = "study-quiz"
	SchemaStudyFlashcards = "study-flashcards"
)

var schemaSources = map[string]string{
	SchemaStudySummary: `{
		"type": "object",
		"required": ["summary"],
		"properties": {
			"summary": {"type": "string", "minLength": 1}
		}
	}`,
	SchemaStudyQuiz: `{
		"type": "object",
		"required": ["quiz"],
		"properties": {
			"quiz": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["question", "options", "correctAnswer"],
					"properties": {
						"question": {"type": "string", "minLength": 1},
						"options": {
							"type": "array",
							"minItems": 2,
							"items": {"type": "string"}
						},
						"correctAnswer": {"type": "integer", "minimum": 0},
						"explanation": {"type": "string"}
					}
				}
			}
		}
	}`,
	SchemaStudyFlashcards: `{
		"type": "object",
		"required": ["flashcards"],
		"properties": {
			"flashcards": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["front", "back"],
					"properties": {
						"front": {"type": "string", "minLength": 1},
						"back": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}`,
}

// NewSchemaValidator compiles the built-in study output schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}

	for name, source := range schemaSources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}

	return sv, nil
}

type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateJSONString validates a JSON document against a named schema.
func (sv *SchemaValidator) ValidateJSONString(schemaName, document string) (*ValidationResult, error) {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return nil, fmt.Errorf("unknown schema: %s", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("invalid JSON: %v", err)},
		}, nil
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, desc.String())
	}

	return vr, nil
}
