package answer

// Kind is the structural category an answer must satisfy.
type Kind string

const (
	KindFormula Kind = "formula"
	KindValue   Kind = "value"
	KindTable   Kind = "table"
	KindText    Kind = "text"
)

// AllKinds returns every known kind in display order.
func AllKinds() []Kind {
	return []Kind{KindFormula, KindValue, KindTable, KindText}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFormula, KindValue, KindTable, KindText:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// FormatHint returns the short guidance shown next to the expected kind.
func FormatHint(k Kind) string {
	switch k {
	case KindFormula:
		return "(start with =)"
	case KindValue:
		return "(number only)"
	case KindTable:
		return "(JSON array of {Region, Sales})"
	case KindText:
		return "(2-3 lines)"
	default:
		return ""
	}
}

// Placeholder returns the example answer shown in an empty draft.
func Placeholder(k Kind) string {
	switch k {
	case KindFormula:
		return `=SUMIFS(D:D,A:A,"East",C:C,"Pencil")`
	case KindValue:
		return "e.g., 19.99"
	case KindTable:
		return `[{"Region":"East","Sales":999.0}]`
	case KindText:
		return "2-3 lines (e.g., when to use $ and table refs)"
	default:
		return "Type your answer here"
	}
}
