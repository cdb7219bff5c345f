package service

import (
	"context"
	"encoding/json"
	"sync"
)

// MockAnswer is a canned response to SubmitAnswer.
type MockAnswer struct {
	Result *AnswerResult
	Err    error
}

// MockClient is a deterministic Client for testing. It returns canned
// responses in FIFO order and records every call.
type MockClient struct {
	mu sync.Mutex

	StartResult *StartResult
	StartErr    error
	answers     []MockAnswer
	Report      json.RawMessage
	ReportErr   error

	// SubmitHook, if set, runs before a canned answer is returned. Tests use
	// it to hold a call in flight.
	SubmitHook func(ctx context.Context, sub Submission)

	StartCalls  []string
	Submissions []Submission
	reportCalls int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a MockClient that starts with start and then
// answers with the given responses.
func NewMockClient(start *StartResult, answers ...MockAnswer) *MockClient {
	return &MockClient{StartResult: start, answers: answers}
}

func (m *MockClient) Start(_ context.Context, candidateEmail string) (*StartResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartCalls = append(m.StartCalls, candidateEmail)
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	if m.StartResult == nil {
		return nil, &TransportError{Op: "/start", StatusCode: 503, Status: "503 Service Unavailable"}
	}
	res := *m.StartResult
	return &res, nil
}

// SubmitAnswer returns the next canned answer, or a 503 TransportError if
// the queue is empty.
func (m *MockClient) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	m.mu.Lock()
	m.Submissions = append(m.Submissions, sub)
	hook := m.SubmitHook
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, sub)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.answers) == 0 {
		return nil, &TransportError{Op: "/answer", StatusCode: 503, Status: "503 Service Unavailable"}
	}
	next := m.answers[0]
	m.answers = m.answers[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return next.Result, nil
}

func (m *MockClient) FetchReport(_ context.Context, _ string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reportCalls++
	if m.ReportErr != nil {
		return nil, m.ReportErr
	}
	return m.Report, nil
}

// AddAnswer appends a canned answer to the queue.
func (m *MockClient) AddAnswer(a MockAnswer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, a)
}

// SubmitCount returns the number of SubmitAnswer calls made.
func (m *MockClient) SubmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Submissions)
}

// StartCount returns the number of Start calls made.
func (m *MockClient) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.StartCalls)
}

// ReportCount returns the number of FetchReport calls made.
func (m *MockClient) ReportCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reportCalls
}

// LastSubmission returns the most recent submission, if any.
func (m *MockClient) LastSubmission() (Submission, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Submissions) == 0 {
		return Submission{}, false
	}
	return m.Submissions[len(m.Submissions)-1], true
}
