package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/andresuchdata/salescast/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ForecastService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	dashboard cache.DashboardCache
	analysis  cache.AnalysisCache
}

func NewForecastService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	dashboard cache.DashboardCache,
	analysis cache.AnalysisCache,
) *ForecastService {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	if analysis == nil {
		analysis = cache.NewNoopAnalysisCache()
	}
	return &ForecastService{
		products:  products,
		sales:     sales,
		forecasts: forecasts,
		dashboard: dashboard,
		analysis:  analysis,
	}
}

func (s *ForecastService) List(ctx context.Context, userID int64) ([]domain.Forecast, error) {
	return s.forecasts.List(ctx, userID)
}

func (s *ForecastService) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error) {
	if _, err := s.products.Get(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.forecasts.ListByProduct(ctx, userID, productID)
}

// Generate projects daysAhead days of demand from the product's sales
// history and replaces any earlier forecast run.
func (s *ForecastService) Generate(ctx context.Context, userID, productID int64, daysAhead int) (*domain.GenerationResult, error) {
	if daysAhead < 1 || daysAhead > forecast.MaxHorizonDays {
		return nil, domain.ErrInvalidHorizon
	}

	// 1. Ownership
	if _, err := s.products.Get(ctx, userID, productID); err != nil {
		return nil, err
	}

	// 2. History
	sales, err := s.sales.ListByProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}
	if len(sales) == 0 {
		return nil, domain.ErrNoSalesHistory
	}

	// 3. Project and persist as one run
	points := forecast.GenerateForecast(domain.SalesRecords(sales), daysAhead)
	runID := uuid.New()
	if err := s.forecasts.ReplaceForProduct(ctx, userID, productID, runID, points); err != nil {
		return nil, fmt.Errorf("failed to store forecast: %w", err)
	}

	invalidateDashboard(ctx, s.dashboard, userID)

	log.Debug().
		Int64("product_id", productID).
		Str("run_id", runID.String()).
		Int("points", len(points)).
		Msg("forecast generated")

	return &domain.GenerationResult{ProductID: productID, RunID: &runID, Count: len(points)}, nil
}

// Analyze returns trend, seasonality and a smoothed quantity series for the
// product. A product without sales gets nil trend and seasonality.
func (s *ForecastService) Analyze(ctx context.Context, userID, productID int64, g forecast.Granularity) (*domain.ProductAnalysis, error) {
	if _, err := s.products.Get(ctx, userID, productID); err != nil {
		return nil, err
	}

	if analysis, ok, err := s.analysis.GetAnalysis(ctx, userID, productID, g); err == nil && ok {
		return analysis, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analysis: cache get failed")
	}

	sales, err := s.sales.ListByProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}

	analysis := &domain.ProductAnalysis{
		ProductID:   productID,
		Granularity: g,
		Smoothed:    []float64{},
	}
	if len(sales) > 0 {
		records := domain.SalesRecords(sales)
		trend := forecast.AnalyzeTrend(records)
		season := forecast.AnalyzeSeasonalityBy(records, g)
		analysis.Trend = &trend
		analysis.Seasonality = &season
		analysis.Smoothed = forecast.MovingAverage(forecast.QuantitySeries(records), forecast.SmoothingWindow)
	}

	if err := s.analysis.SetAnalysis(ctx, userID, productID, analysis); err != nil {
		log.Warn().Err(err).Msg("analysis: cache set failed")
	}

	return analysis, nil
}
