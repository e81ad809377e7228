package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	registrySchemaName  = "quiz-bank-registry"
	questionsSchemaName = "quiz-bank-questions"
)

// registrySchema defines the JSON schema for the chapter/topic registry.
var registrySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"chapters": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"label": map[string]any{"type": "string", "minLength": 1},
					"emoji": map[string]any{"type": "string"},
					"topics": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":    map[string]any{"type": "string", "minLength": 1},
								"label": map[string]any{"type": "string", "minLength": 1},
								// null marks a topic without question content.
								"file":     map[string]any{"type": []any{"string", "null"}},
								"hasGuide": map[string]any{"type": "boolean"},
							},
							"required": []any{"id", "label", "file"},
						},
					},
				},
				"required": []any{"id", "label", "topics"},
			},
		},
	},
	"required": []any{"chapters"},
}

// questionsSchema defines the JSON schema for the flat question pool.
var questionsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":         map[string]any{"type": "string", "minLength": 1},
			"topic":      map[string]any{"type": "string", "minLength": 1},
			"category":   map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "string"},
			"type":       map[string]any{"type": "string"},
			"text":       map[string]any{"type": "string"},
		},
		"required": []any{"id", "topic"},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validate checks raw JSON against the named schema definition.
func validate(name string, definition map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema(name, definition)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw bytes.
	// Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
