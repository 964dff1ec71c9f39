package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GuissellB/Tarea-2-orquestador/internal/observability"
)

// Policy bounds one stage's execution: at most MaxAttempts total runs of the
// unit of work with a fixed Delay between them. MaxAttempts 1 means no retry.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Run executes work under policy. It emits {stage}_start and, on failure,
// {stage}_error once per attempt, {stage}_success on the first success, and
// always a final {stage}_time event with total wall-clock seconds across all
// attempts. Non-retryable errors (see IsRetryable) end the loop on the first
// attempt. The terminal error is returned exactly as the work produced it so
// callers can classify it with errors.Is.
//
// Run knows nothing about what the work does; stage-specific context (location,
// path, target) should be attached by the caller via logger.With.
func Run[T any](ctx context.Context, logger *zap.Logger, stage string, policy Policy, work func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Seconds()
		logger.Info(stage+"_time", zap.Float64("seconds", elapsed))
		observability.StageDuration.WithLabelValues(stage).Observe(elapsed)
	}()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			observability.StageRetriesTotal.WithLabelValues(stage).Inc()
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(policy.Delay):
			}
		}

		logger.Info(stage+"_start", zap.Int("attempt", attempt))
		observability.StageAttemptsTotal.WithLabelValues(stage).Inc()

		attemptStart := time.Now()
		out, err := work(ctx)
		attemptSeconds := time.Since(attemptStart).Seconds()

		if err == nil {
			logger.Info(stage+"_success",
				zap.Int("attempt", attempt),
				zap.Float64("attempt_seconds", attemptSeconds))
			return out, nil
		}

		logger.Error(stage+"_error",
			zap.Int("attempt", attempt),
			zap.Float64("attempt_seconds", attemptSeconds),
			zap.Error(err))
		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
