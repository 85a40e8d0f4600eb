package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/google/uuid"
)

// Forecaster regenerates the forecast of one product.
type Forecaster interface {
	Generate(ctx context.Context, userID, productID int64, daysAhead int) (*domain.GenerationResult, error)
}

// ForecastLister reads back persisted forecast rows for export.
type ForecastLister interface {
	ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error)
}

// Alerter derives alerts from a product's latest forecast run.
type Alerter interface {
	Generate(ctx context.Context, userID, productID int64) (*domain.GenerationResult, error)
}

// ProductSource enumerates the products a batch run covers.
type ProductSource interface {
	List(ctx context.Context, userID int64) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// Config holds configuration for a batch run
type Config struct {
	DaysAhead     int
	WorkerCount   int           // Number of concurrent workers
	RetryAttempts int           // Attempts per product on transient failures
	RetryBackoff  time.Duration // Backoff between attempts, doubled each retry
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		DaysAhead:     forecast.DefaultHorizonDays,
		WorkerCount:   4,
		RetryAttempts: 3,
		RetryBackoff:  2 * time.Second,
	}
}

// JobStatus represents the outcome of one product job
type JobStatus string

const (
	JobCompleted JobStatus = "completed"
	JobSkipped   JobStatus = "skipped"
	JobFailed    JobStatus = "failed"
)

// ProductJob is one product scheduled in a batch run
type ProductJob struct {
	UserID    int64
	ProductID int64
	Name      string
}

// JobResult tracks the processing of a single product
type JobResult struct {
	ProductJob
	Status    JobStatus
	RunID     *uuid.UUID
	Forecasts int
	Alerts    int
	Attempts  int
	Error     string
	Duration  time.Duration
}

// RunSummary aggregates a batch run
type RunSummary struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Results     []JobResult
	Completed   int
	Skipped     int
	Failed      int
}

func (s *RunSummary) tally() {
	s.Completed, s.Skipped, s.Failed = 0, 0, 0
	for _, r := range s.Results {
		switch r.Status {
		case JobCompleted:
			s.Completed++
		case JobSkipped:
			s.Skipped++
		case JobFailed:
			s.Failed++
		}
	}
}
