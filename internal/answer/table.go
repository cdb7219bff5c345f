package answer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// TableExample is the answer shape table questions expect.
const TableExample = `[{"Region":"East","Sales":999.0}]`

const tableSchemaURL = "schema://table-answer.json"

// tableSchema accepts an array of JSON objects. Cell values are not
// constrained; the service grades them.
var tableSchema = mustCompileTableSchema()

// TableError reports a table draft that cannot be sent as answer_table.
type TableError struct {
	Err error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("for table questions, paste a valid JSON array of objects, e.g. %s: %v", TableExample, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// ParseTable decodes a table draft into rows. Numbers are kept as
// json.Number so the literal the candidate typed reaches the service
// unchanged.
func ParseTable(raw string) ([]map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &TableError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &TableError{Err: errors.New("trailing data after JSON array")}
	}

	if err := tableSchema.Validate(doc); err != nil {
		return nil, &TableError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	items := doc.([]any)
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.(map[string]any))
	}
	return rows, nil
}

// FormatTable renders rows back to compact JSON, as sent on the wire.
func FormatTable(rows []map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rows); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func mustCompileTableSchema() *jsonschema.Schema {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
		},
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(tableSchemaURL, def); err != nil {
		panic(fmt.Sprintf("add table schema: %v", err))
	}
	compiled, err := c.Compile(tableSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile table schema: %v", err))
	}
	return compiled
}
