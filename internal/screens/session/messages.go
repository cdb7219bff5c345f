package session

import (
	iv "github.com/abhisek/sheetcoach/internal/interview"
)

// startedMsg is sent when the start call returns.
type startedMsg struct {
	Err error
}

// answeredMsg is sent when a submit action finishes, locally or remotely.
type answeredMsg struct {
	Outcome iv.Outcome
	Err     error
}

// hintMsg is sent when a hint request returns.
type hintMsg struct {
	Outcome iv.Outcome
	Err     error
}
