package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryClient is a decorator that retries idempotent calls on transient
// errors with exponential backoff and jitter. Start and SubmitAnswer are
// passed through unchanged: the service is not idempotent for them.
type RetryClient struct {
	inner  Client
	config RetryConfig
}

// WithRetry wraps a Client with retry logic.
func WithRetry(c Client, cfg RetryConfig) *RetryClient {
	return &RetryClient{inner: c, config: cfg}
}

func (r *RetryClient) Start(ctx context.Context, candidateEmail string) (*StartResult, error) {
	return r.inner.Start(ctx, candidateEmail)
}

func (r *RetryClient) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	return r.inner.SubmitAnswer(ctx, sub)
}

func (r *RetryClient) FetchReport(ctx context.Context, interviewID string) (json.RawMessage, error) {
	return retryCall(ctx, r, func() (json.RawMessage, error) {
		return r.inner.FetchReport(ctx, interviewID)
	})
}

func (r *RetryClient) Health(ctx context.Context) (*HealthStatus, error) {
	hc, ok := r.inner.(HealthChecker)
	if !ok {
		return nil, fmt.Errorf("client does not support health checks")
	}
	return retryCall(ctx, r, func() (*HealthStatus, error) {
		return hc.Health(ctx)
	})
}

func (r *RetryClient) Metrics(ctx context.Context) (*ServiceMetrics, error) {
	mc, ok := r.inner.(MetricsChecker)
	if !ok {
		return nil, fmt.Errorf("client does not support metrics")
	}
	return retryCall(ctx, r, func() (*ServiceMetrics, error) {
		return mc.Metrics(ctx)
	})
}

func retryCall[T any](ctx context.Context, r *RetryClient, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := max(r.config.MaxAttempts, 1)
	for attempt := range attempts {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return zero, lastErr
}

// shouldRetry reports whether err is transient: no response at all, a 5xx,
// or a 429.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}

	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch {
	case te.StatusCode == 0:
		return true
	case te.StatusCode == http.StatusTooManyRequests:
		return true
	case te.StatusCode >= 500:
		return true
	}
	return false
}

func (r *RetryClient) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
