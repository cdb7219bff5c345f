package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sheetcoach/internal/store"
)

// LoggingClient is a decorator that records every service call as a
// request event and a log line.
type LoggingClient struct {
	inner     Client
	eventRepo store.EventRepo
	log       *zap.Logger
}

// WithLogging wraps a Client with event logging. repo may be nil.
func WithLogging(c Client, repo store.EventRepo, log *zap.Logger) *LoggingClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingClient{inner: c, eventRepo: repo, log: log.Named("service")}
}

func (l *LoggingClient) Start(ctx context.Context, candidateEmail string) (*StartResult, error) {
	start := time.Now()
	res, err := l.inner.Start(ctx, candidateEmail)
	fields := []zap.Field{zap.Bool("has_email", candidateEmail != "")}
	if res != nil {
		fields = append(fields, zap.String("interview_id", res.InterviewID), zap.String("question_id", res.Question.ID))
	}
	l.record(ctx, "/start", start, err, fields...)
	return res, err
}

func (l *LoggingClient) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	start := time.Now()
	res, err := l.inner.SubmitAnswer(ctx, sub)
	fields := []zap.Field{
		zap.String("interview_id", sub.InterviewID),
		zap.String("question_id", sub.QuestionID),
		zap.Bool("want_hint", sub.WantHint),
	}
	if res != nil && !res.IsHint() {
		fields = append(fields, zap.Float64("score", res.Score), zap.Bool("done", res.Done))
	}
	l.record(ctx, "/answer", start, err, fields...)
	return res, err
}

func (l *LoggingClient) FetchReport(ctx context.Context, interviewID string) (json.RawMessage, error) {
	start := time.Now()
	doc, err := l.inner.FetchReport(ctx, interviewID)
	l.record(ctx, "/report", start, err, zap.String("interview_id", interviewID), zap.Int("bytes", len(doc)))
	return doc, err
}

func (l *LoggingClient) Health(ctx context.Context) (*HealthStatus, error) {
	hc, ok := l.inner.(HealthChecker)
	if !ok {
		return nil, fmt.Errorf("client does not support health checks")
	}
	start := time.Now()
	res, err := hc.Health(ctx)
	l.record(ctx, "/health", start, err)
	return res, err
}

func (l *LoggingClient) Metrics(ctx context.Context) (*ServiceMetrics, error) {
	mc, ok := l.inner.(MetricsChecker)
	if !ok {
		return nil, fmt.Errorf("client does not support metrics")
	}
	start := time.Now()
	res, err := mc.Metrics(ctx)
	var fields []zap.Field
	if res != nil {
		fields = append(fields, zap.Int("total_answers", res.TotalAnswers))
	}
	l.record(ctx, "/admin/metrics", start, err, fields...)
	return res, err
}

func (l *LoggingClient) record(ctx context.Context, op string, start time.Time, err error, fields ...zap.Field) {
	latency := time.Since(start)
	fields = append(fields, zap.String("op", op), zap.Duration("latency", latency))

	data := store.RequestEventData{
		Operation:  op,
		LatencyMs:  latency.Milliseconds(),
		StatusCode: StatusCode(err),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("service call failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("service call", fields...)
	}

	if l.eventRepo == nil {
		return
	}
	// A failed audit write never fails the call.
	if logErr := l.eventRepo.AppendRequestEvent(context.WithoutCancel(ctx), data); logErr != nil {
		l.log.Warn("failed to record request event", zap.String("op", op), zap.Error(logErr))
	}
}
