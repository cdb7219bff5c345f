package interview

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyStarted = errors.New("interview already started")
	ErrNotStarted     = errors.New("interview has not started")
	ErrBusy           = errors.New("a request is already in flight")
	ErrCompleted      = errors.New("interview is complete")
	ErrNotCompleted   = errors.New("report is available only after the interview is complete")
	ErrNoHint         = errors.New("service returned no hint")
	ErrAbandoned      = errors.New("interview was abandoned")

	// ErrSuperseded is returned for a response that arrived after Abandon.
	// The response is discarded.
	ErrSuperseded = errors.New("response arrived after the interview was abandoned")
)

// ReportError is a failed report export. It never affects session state.
type ReportError struct {
	InterviewID string
	Err         error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("export report for interview %s: %v", e.InterviewID, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }
