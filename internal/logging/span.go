package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/usergraph/backend/internal/metrics"
)

// Span outcomes recorded when a span ends.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Span represents one resolver invocation within a request.
type Span struct {
	name    string
	logger  *slog.Logger
	start   time.Time
	outcome string
}

// StartSpan derives a child span from the provided context, enriching the logger
// with span metadata. It returns the derived context and the span handle.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Span attributes are applied to the logger that existed before the
	// outermost span so nested spans do not repeat keys.
	base, ok := ctx.Value(spanBaseKey).(*slog.Logger)
	if !ok {
		base = FromContext(ctx)
		ctx = context.WithValue(ctx, spanBaseKey, base)
	}

	parentSpanID := SpanIDFromContext(ctx)
	spanID := uuid.NewString()

	logger := base.With(
		slog.String("span_id", spanID),
		slog.String("span_name", name),
	)
	if parentSpanID != "" {
		logger = logger.With(slog.String("parent_span_id", parentSpanID))
	}

	ctx = WithLogger(ctx, logger)
	ctx = withSpanID(ctx, spanID)

	return ctx, &Span{
		name:    name,
		logger:  logger,
		start:   time.Now(),
		outcome: OutcomeOK,
	}
}

// SetOutcome records how the unit of work finished.
func (s *Span) SetOutcome(outcome string) {
	if s == nil {
		return
	}
	s.outcome = outcome
}

// End finalizes the span, emits a completion log entry and records its duration.
func (s *Span) End() {
	if s == nil {
		return
	}
	duration := time.Since(s.start)
	metrics.ObserveResolver(s.name, s.outcome, duration)
	s.logger.Debug("span completed", slog.String("outcome", s.outcome), slog.Duration("duration", duration))
}
