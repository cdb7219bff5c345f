package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name   string
		schema *responseSchema
		body   string
		ok     bool
	}{
		{"start ok", schemaStart, `{"interview_id":"iv1","question":` + formulaQuestionJSON + `}`, true},
		{"start missing id", schemaStart, `{"question":` + formulaQuestionJSON + `}`, false},
		{"start unknown kind", schemaStart, `{"interview_id":"iv1","question":{"id":"q1","prompt":"p","kind":"chart","skill":"s","max_score":1}}`, false},
		{"answer hint only", schemaAnswer, `{"hint":"try SUMIFS"}`, true},
		{"answer nulls", schemaAnswer, `{"feedback":null,"next_question":null,"summary":null}`, true},
		{"answer percent out of range", schemaAnswer, `{"done":true,"summary":{"band":"A","overall_percent":140}}`, false},
		{"not json", schemaAnswer, `<html>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &rawResponse{statusCode: 200, status: "200 OK", body: []byte(tt.body)}
			err := validateBody("/answer", resp, tt.schema)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "/answer", te.Op)
		})
	}
}

func TestCompiledSchema_Cached(t *testing.T) {
	first, err := compiledSchema(schemaAnswer)
	require.NoError(t, err)
	second, err := compiledSchema(schemaAnswer)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
