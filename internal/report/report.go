// Package report writes exported interview reports to disk.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the file name used for an interview's report.
func FileName(interviewID string) string {
	id := unsafeChars.ReplaceAllString(interviewID, "_")
	if id == "" || id == "." || id == ".." {
		id = "unknown"
	}
	return fmt.Sprintf("report_%s.json", id)
}

// Write pretty-prints doc with two-space indentation into dir and returns
// the path written. dir is created if needed.
func Write(dir, interviewID string, doc json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return "", fmt.Errorf("format report: %w", err)
	}
	buf.WriteByte('\n')

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, FileName(interviewID))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
