package answer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Classify reports the kind the raw draft looks like, given the kind the
// question expects. It is a structural sniff only; the service does the
// authoritative validation.
//
// Rules, applied to the trimmed input:
//   - expected table: table iff the input is a JSON array, text otherwise
//   - leading "=": formula
//   - non-empty finite number: value
//   - anything else, including the empty string: text
func Classify(raw string, expected Kind) Kind {
	t := strings.TrimSpace(raw)

	if expected == KindTable {
		if isJSONArray(t) {
			return KindTable
		}
		return KindText
	}

	if strings.HasPrefix(t, "=") {
		return KindFormula
	}
	if isFiniteNumber(t) {
		return KindValue
	}
	return KindText
}

// Matches reports whether raw classifies as the expected kind.
func Matches(raw string, expected Kind) bool {
	return Classify(raw, expected) == expected
}

func isJSONArray(t string) bool {
	if !strings.HasPrefix(t, "[") || !strings.HasSuffix(t, "]") {
		return false
	}
	return json.Valid([]byte(t))
}

func isFiniteNumber(t string) bool {
	if t == "" {
		return false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
