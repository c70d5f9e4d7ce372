// Package validate enforces the on-disk JSON shapes of the dialogue
// and script inputs at submit time, so a malformed payload is rejected
// with apierr.InvalidInput before a task ever reaches the scheduler
// rather than failing deep inside a step executor.
package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonschema"

	"storysynth/internal/apierr"
)

const dialogueSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["sort", "text", "emo_audio"],
    "properties": {
      "sort": {"type": "integer"},
      "text": {"type": "string"},
      "emo_audio": {"type": "string"},
      "role": {"type": "string"}
    }
  }
}`

const scriptSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["expected_text", "expected_duration_ms", "expected_role", "start_ms"],
    "properties": {
      "expected_text": {"type": "string"},
      "expected_duration_ms": {"type": "integer", "minimum": 0},
      "expected_role": {"type": "string"},
      "start_ms": {"type": "integer", "minimum": 0}
    }
  }
}`

// Validator compiles the fixed schemas once and reuses them across
// requests.
type Validator struct {
	dialogueSchema *jsonschema.Schema
	scriptSchema   *jsonschema.Schema
}

// New compiles the dialogue and script schemas.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	dialogueSchema, err := compiler.Compile([]byte(dialogueSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile dialogue schema: %w", err)
	}
	scriptSchema, err := compiler.Compile([]byte(scriptSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile script schema: %w", err)
	}

	return &Validator{dialogueSchema: dialogueSchema, scriptSchema: scriptSchema}, nil
}

// DialogueJSON validates the file at path against the dialogue record
// array shape.
func (v *Validator) DialogueJSON(path string) error {
	return v.validateFile(path, v.dialogueSchema, "dialogue")
}

// ScriptJSON validates the file at path against the SlotSpec array
// shape.
func (v *Validator) ScriptJSON(path string) error {
	return v.validateFile(path, v.scriptSchema, "script")
}

func (v *Validator) validateFile(path string, schema *jsonschema.Schema, label string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apierr.Wrap(apierr.InvalidInput, fmt.Sprintf("failed to read %s json", label), err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return apierr.Wrap(apierr.InvalidInput, fmt.Sprintf("%s json is not valid JSON", label), err)
	}

	result := schema.Validate(doc)
	if !result.IsValid() {
		return apierr.New(apierr.InvalidInput, fmt.Sprintf("%s json failed schema validation: %s", label, formatErrors(result)))
	}
	return nil
}

func formatErrors(result *jsonschema.EvaluationResult) string {
	if len(result.Errors) == 0 {
		return "invalid document"
	}
	msg := ""
	for field, err := range result.Errors {
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("%s: %s", field, err)
	}
	return msg
}
