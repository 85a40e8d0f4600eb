package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/andresuchdata/salescast/backend-go/internal/repository"
)

type AlertService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	alerts    repository.AlertRepository
	dashboard cache.DashboardCache
}

func NewAlertService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	alerts repository.AlertRepository,
	dashboard cache.DashboardCache,
) *AlertService {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	return &AlertService{
		products:  products,
		sales:     sales,
		forecasts: forecasts,
		alerts:    alerts,
		dashboard: dashboard,
	}
}

func (s *AlertService) List(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return s.alerts.List(ctx, userID)
}

// Generate runs the anomaly rules against the product's current forecast run
// and stores the resulting alerts. Without history or a forecast it stores
// nothing.
func (s *AlertService) Generate(ctx context.Context, userID, productID int64) (*domain.GenerationResult, error) {
	product, err := s.products.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}
	rows, err := s.forecasts.ListByProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}

	result := &domain.GenerationResult{ProductID: productID}
	if len(sales) == 0 || len(rows) == 0 {
		return result, nil
	}

	events := forecast.DetectAnomalies(product.Snapshot(), domain.SalesRecords(sales), domain.ForecastPoints(rows))
	if err := s.alerts.CreateBatch(ctx, userID, productID, events); err != nil {
		return nil, fmt.Errorf("failed to store alerts: %w", err)
	}

	if len(events) > 0 {
		invalidateDashboard(ctx, s.dashboard, userID)
	}
	result.Count = len(events)
	return result, nil
}

func (s *AlertService) MarkRead(ctx context.Context, userID, id int64) error {
	if err := s.alerts.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.dashboard, userID)
	return nil
}

func (s *AlertService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.alerts.Delete(ctx, userID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.dashboard, userID)
	return nil
}
