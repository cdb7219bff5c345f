package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/sheetcoach/internal/answer"
)

// responseSchema names a JSON schema definition for a service response.
type responseSchema struct {
	Name       string
	Definition map[string]any
}

// schemaCache caches compiled response schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func questionDefinition() map[string]any {
	kinds := make([]any, 0, len(answer.AllKinds()))
	for _, k := range answer.AllKinds() {
		kinds = append(kinds, string(k))
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "prompt", "kind", "skill", "max_score"},
		"properties": map[string]any{
			"id":        map[string]any{"type": "string", "minLength": 1},
			"prompt":    map[string]any{"type": "string"},
			"kind":      map[string]any{"enum": kinds},
			"skill":     map[string]any{"type": "string"},
			"max_score": map[string]any{"type": "number", "exclusiveMinimum": 0},
			"hint":      map[string]any{"type": []any{"string", "null"}},
		},
	}
}

func summaryDefinition() map[string]any {
	stringList := map[string]any{
		"type":  []any{"array", "null"},
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"band", "overall_percent"},
		"properties": map[string]any{
			"band":            map[string]any{"type": "string"},
			"overall_percent": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"total_score":     map[string]any{"type": []any{"number", "null"}},
			"per_skill": map[string]any{
				"type":                 []any{"object", "null"},
				"additionalProperties": map[string]any{"type": "number"},
			},
			"strengths": stringList,
			"gaps":      stringList,
			"drills":    stringList,
		},
	}
}

func nullable(def map[string]any) map[string]any {
	return map[string]any{"anyOf": []any{map[string]any{"type": "null"}, def}}
}

var schemaStart = &responseSchema{
	Name: "start-response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"interview_id", "question"},
		"properties": map[string]any{
			"interview_id": map[string]any{"type": "string", "minLength": 1},
			"question":     questionDefinition(),
		},
	},
}

var schemaAnswer = &responseSchema{
	Name: "answer-response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint":          map[string]any{"type": []any{"string", "null"}},
			"feedback":      map[string]any{"type": []any{"string", "null"}},
			"score":         map[string]any{"type": []any{"number", "null"}},
			"correct":       map[string]any{"type": []any{"boolean", "null"}},
			"done":          map[string]any{"type": []any{"boolean", "null"}},
			"next_question": nullable(questionDefinition()),
			"summary":       nullable(summaryDefinition()),
		},
	},
}

var schemaMetrics = &responseSchema{
	Name: "metrics-response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"total_answers", "avg_score"},
		"properties": map[string]any{
			"total_answers": map[string]any{"type": "integer", "minimum": 0},
			"avg_score":     map[string]any{"type": "number"},
			"per_skill_avg": map[string]any{
				"type":                 []any{"object", "null"},
				"additionalProperties": map[string]any{"type": "number"},
			},
		},
	},
}

// validateBody checks a 2xx body against a response schema.
func validateBody(op string, resp *rawResponse, schema *responseSchema) error {
	var parsed any
	if err := json.Unmarshal(resp.body, &parsed); err != nil {
		return malformed(op, resp.statusCode, resp.status, "invalid JSON: %v", err)
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return malformed(op, resp.statusCode, resp.status, "compile schema %q: %v", schema.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return malformed(op, resp.statusCode, resp.status, "schema validation failed: %v", err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *responseSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go slices of typed values.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
