package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Worker runs forecast and alert generation over a set of products
type Worker struct {
	forecaster Forecaster
	alerter    Alerter
	config     Config
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewWorker creates a new batch worker
func NewWorker(forecaster Forecaster, alerter Alerter, config Config) *Worker {
	defaults := DefaultConfig()
	if config.DaysAhead <= 0 {
		config.DaysAhead = defaults.DaysAhead
	}
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.RetryAttempts < 1 {
		config.RetryAttempts = 1
	}

	return &Worker{
		forecaster: forecaster,
		alerter:    alerter,
		config:     config,
		sleep:      sleepContext,
	}
}

// ProcessBatch processes jobs concurrently. A failing product is recorded in
// its JobResult; only context cancellation aborts the batch.
func (w *Worker) ProcessBatch(ctx context.Context, jobs []ProductJob) (*RunSummary, error) {
	summary := &RunSummary{
		StartedAt: time.Now(),
		Results:   make([]JobResult, len(jobs)),
	}

	log.Info().Int("products", len(jobs)).Int("workers", w.config.WorkerCount).Msg("starting forecast batch")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.WorkerCount)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, job := i, job
		g.Go(func() error {
			summary.Results[i] = w.processProduct(gctx, job)
			return gctx.Err()
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary.CompletedAt = time.Now()
	summary.tally()

	log.Info().
		Int("completed", summary.Completed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", summary.CompletedAt.Sub(summary.StartedAt)).
		Msg("forecast batch finished")

	return summary, err
}

// processProduct processes a single product
func (w *Worker) processProduct(ctx context.Context, job ProductJob) JobResult {
	startTime := time.Now()
	result := JobResult{ProductJob: job}

	err := w.withRetry(ctx, &result, func() error {
		// 1. Forecast
		generated, err := w.forecaster.Generate(ctx, job.UserID, job.ProductID, w.config.DaysAhead)
		if err != nil {
			return err
		}
		result.RunID = generated.RunID
		result.Forecasts = generated.Count

		// 2. Alerts from the fresh run
		alerts, err := w.alerter.Generate(ctx, job.UserID, job.ProductID)
		if err != nil {
			return err
		}
		result.Alerts = alerts.Count
		return nil
	})
	result.Duration = time.Since(startTime)

	switch {
	case err == nil:
		result.Status = JobCompleted
	case errors.Is(err, domain.ErrNoSalesHistory):
		result.Status = JobSkipped
		result.Error = err.Error()
	default:
		result.Status = JobFailed
		result.Error = err.Error()
		log.Warn().Err(err).
			Int64("user_id", job.UserID).
			Int64("product_id", job.ProductID).
			Int("attempts", result.Attempts).
			Msg("product forecast failed")
	}
	return result
}

func (w *Worker) withRetry(ctx context.Context, result *JobResult, fn func() error) error {
	backoff := w.config.RetryBackoff
	var err error
	for attempt := 1; attempt <= w.config.RetryAttempts; attempt++ {
		result.Attempts = attempt
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
		if attempt == w.config.RetryAttempts {
			break
		}
		log.Debug().Err(err).Int64("product_id", result.ProductID).Int("attempt", attempt).Msg("retrying product forecast")
		if sleepErr := w.sleep(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
		backoff *= 2
	}
	return err
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domain.ErrNoSalesHistory),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidHorizon):
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
