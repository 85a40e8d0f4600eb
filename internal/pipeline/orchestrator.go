package pipeline

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
)

// Orchestrator resolves the products of a batch run, processes them and
// optionally exports the results.
type Orchestrator struct {
	products ProductSource
	worker   *Worker
	exporter *Exporter
}

// NewOrchestrator creates a new Orchestrator. exporter may be nil.
func NewOrchestrator(products ProductSource, worker *Worker, exporter *Exporter) *Orchestrator {
	return &Orchestrator{
		products: products,
		worker:   worker,
		exporter: exporter,
	}
}

// Jobs lists the products of userID, or of every user when userID is 0.
func (o *Orchestrator) Jobs(ctx context.Context, userID int64) ([]ProductJob, error) {
	var (
		products []domain.Product
		err      error
	)
	if userID > 0 {
		products, err = o.products.List(ctx, userID)
	} else {
		products, err = o.products.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	jobs := make([]ProductJob, 0, len(products))
	for _, p := range products {
		jobs = append(jobs, ProductJob{UserID: p.UserID, ProductID: p.ID, Name: p.Name})
	}
	return jobs, nil
}

// Run processes every product in scope. When exportPrefix is set and an
// exporter is configured, the uploaded object keys are returned.
func (o *Orchestrator) Run(ctx context.Context, userID int64, exportPrefix string) (*RunSummary, []string, error) {
	jobs, err := o.Jobs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(jobs) == 0 {
		return &RunSummary{Results: []JobResult{}}, nil, nil
	}

	summary, err := o.worker.ProcessBatch(ctx, jobs)
	if err != nil {
		return summary, nil, fmt.Errorf("batch interrupted: %w", err)
	}

	if exportPrefix == "" || o.exporter == nil {
		return summary, nil, nil
	}

	keys, err := o.exporter.Export(ctx, summary, exportPrefix)
	if err != nil {
		return summary, nil, fmt.Errorf("failed to export batch results: %w", err)
	}
	return summary, keys, nil
}
