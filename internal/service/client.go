package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is the interview service as seen by the session controller.
type Client interface {
	// Start opens a new interview. candidateEmail may be empty.
	Start(ctx context.Context, candidateEmail string) (*StartResult, error)

	// SubmitAnswer sends an answer or a hint request for the current question.
	SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error)

	// FetchReport returns the final report document. Its content is opaque.
	FetchReport(ctx context.Context, interviewID string) (json.RawMessage, error)
}

// HealthChecker is implemented by clients that can probe the service.
type HealthChecker interface {
	Health(ctx context.Context) (*HealthStatus, error)
}

// MetricsChecker is implemented by clients that can read the service's
// aggregate grading metrics.
type MetricsChecker interface {
	Metrics(ctx context.Context) (*ServiceMetrics, error)
}

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// HTTPClient implements Client over the service's JSON/HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)
var _ HealthChecker = (*HTTPClient)(nil)
var _ MetricsChecker = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at cfg.BaseURL.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// BaseURL returns the normalized service root.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type startRequest struct {
	CandidateEmail string `json:"candidate_email,omitempty"`
}

func (c *HTTPClient) Start(ctx context.Context, candidateEmail string) (*StartResult, error) {
	const op = "/start"
	resp, err := c.do(ctx, http.MethodPost, op, "/start", startRequest{CandidateEmail: candidateEmail})
	if err != nil {
		return nil, err
	}
	if err := validateBody(op, resp, schemaStart); err != nil {
		return nil, err
	}

	var out StartResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, malformed(op, resp.statusCode, resp.status, "decode: %v", err)
	}
	return &out, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	const op = "/answer"
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, op, "/answer", sub)
	if err != nil {
		return nil, err
	}
	if err := validateBody(op, resp, schemaAnswer); err != nil {
		return nil, err
	}

	var out AnswerResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, malformed(op, resp.statusCode, resp.status, "decode: %v", err)
	}
	if out.IsHint() {
		return &out, nil
	}
	switch {
	case sub.WantHint:
		// Hint requests are answered with a hint or nothing useful; the
		// caller decides what an empty hint means.
	case out.Done && out.Summary == nil:
		return nil, malformed(op, resp.statusCode, resp.status, "done without summary")
	case !out.Done && out.NextQuestion == nil:
		return nil, malformed(op, resp.statusCode, resp.status, "not done but no next question")
	}
	return &out, nil
}

func (c *HTTPClient) FetchReport(ctx context.Context, interviewID string) (json.RawMessage, error) {
	const op = "/report"
	resp, err := c.do(ctx, http.MethodGet, op, "/report/"+url.PathEscape(interviewID), nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp.body) {
		return nil, malformed(op, resp.statusCode, resp.status, "body is not JSON")
	}
	return json.RawMessage(resp.body), nil
}

func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	const op = "/health"
	resp, err := c.do(ctx, http.MethodGet, op, "/health", nil)
	if err != nil {
		return nil, err
	}
	var out HealthStatus
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, malformed(op, resp.statusCode, resp.status, "decode: %v", err)
	}
	return &out, nil
}

func (c *HTTPClient) Metrics(ctx context.Context) (*ServiceMetrics, error) {
	const op = "/admin/metrics"
	resp, err := c.do(ctx, http.MethodGet, op, "/admin/metrics", nil)
	if err != nil {
		return nil, err
	}
	if err := validateBody(op, resp, schemaMetrics); err != nil {
		return nil, err
	}
	var out ServiceMetrics
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, malformed(op, resp.statusCode, resp.status, "decode: %v", err)
	}
	return &out, nil
}

type rawResponse struct {
	statusCode int
	status     string
	body       []byte
}

// do sends one request and returns the body of a 2xx response. Every
// failure is a *TransportError.
func (c *HTTPClient) do(ctx context.Context, method, op, path string, body any) (*rawResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	return &rawResponse{statusCode: resp.StatusCode, status: resp.Status, body: data}, nil
}
