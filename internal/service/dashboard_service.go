package service

import (
	"context"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	recentSalesLimit     = 10
	recentAlertsLimit    = 5
	predictedRevenueDays = 30
)

type DashboardService struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	forecasts repository.ForecastRepository
	alerts    repository.AlertRepository
	cache     cache.DashboardCache
	now       func() time.Time
}

func NewDashboardService(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	forecasts repository.ForecastRepository,
	alerts repository.AlertRepository,
	cacheImpl cache.DashboardCache,
) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{
		products:  products,
		sales:     sales,
		forecasts: forecasts,
		alerts:    alerts,
		cache:     cacheImpl,
		now:       time.Now,
	}
}

func (s *DashboardService) Overview(ctx context.Context, userID int64) (*domain.DashboardOverview, error) {
	if overview, ok, err := s.cache.GetOverview(ctx, userID); err == nil && ok {
		return overview, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get overview failed")
	}

	totalProducts, err := s.products.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.sales.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.alerts.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	predicted, err := s.forecasts.PredictedRevenue(ctx, userID, now, now.AddDate(0, 0, predictedRevenueDays))
	if err != nil {
		return nil, err
	}

	recentSales, err := s.sales.Recent(ctx, userID, recentSalesLimit)
	if err != nil {
		return nil, err
	}
	if recentSales == nil {
		recentSales = make([]domain.Sale, 0)
	}

	recentAlerts, err := s.alerts.Recent(ctx, userID, recentAlertsLimit)
	if err != nil {
		return nil, err
	}
	if recentAlerts == nil {
		recentAlerts = make([]domain.Alert, 0)
	}

	overview := &domain.DashboardOverview{
		TotalProducts:    totalProducts,
		TotalRevenue:     totals.Revenue,
		TotalSales:       totals.Quantity,
		UnreadAlerts:     unread,
		PredictedRevenue: predicted,
		RecentSales:      recentSales,
		RecentAlerts:     recentAlerts,
	}

	if err := s.cache.SetOverview(ctx, userID, overview); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set overview failed")
	}

	return overview, nil
}
