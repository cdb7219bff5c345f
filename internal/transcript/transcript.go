// Package transcript holds the append-only display log of an interview.
package transcript

import "sync"

// Speaker identifies who a transcript line is attributed to.
type Speaker string

const (
	SpeakerAgent     Speaker = "Agent"
	SpeakerCandidate Speaker = "You"
)

// LineKind tags what produced a line.
type LineKind string

const (
	KindGreeting LineKind = "greeting"
	KindHint     LineKind = "hint"
	KindMismatch LineKind = "mismatch"
	KindAnswer   LineKind = "answer"
	KindFeedback LineKind = "feedback"
	KindClosing  LineKind = "closing"
)

// Line is a single rendered transcript entry.
type Line struct {
	Speaker Speaker
	Kind    LineKind
	Text    string
}

// String renders the line the way it is displayed.
func (l Line) String() string {
	if l.Kind == KindHint {
		return string(l.Speaker) + " (hint): " + l.Text
	}
	return string(l.Speaker) + ": " + l.Text
}

// Log is an append-only ordered sequence of lines. The zero value is
// ready to use.
type Log struct {
	mu    sync.RWMutex
	lines []Line
}

// Append adds a line to the end of the log.
func (l *Log) Append(line Line) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// Lines returns a copy of all lines in order.
func (l *Log) Lines() []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Strings renders every line.
func (l *Log) Strings() []string {
	lines := l.Lines()
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return out
}

// Agent builds an agent line.
func Agent(kind LineKind, text string) Line {
	return Line{Speaker: SpeakerAgent, Kind: kind, Text: text}
}

// Candidate builds a line attributed to the candidate.
func Candidate(text string) Line {
	return Line{Speaker: SpeakerCandidate, Kind: KindAnswer, Text: text}
}
