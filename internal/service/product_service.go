package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type ProductService struct {
	repo      repository.ProductRepository
	dashboard cache.DashboardCache
}

func NewProductService(repo repository.ProductRepository, dashboard cache.DashboardCache) *ProductService {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	return &ProductService{repo: repo, dashboard: dashboard}
}

func (s *ProductService) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	return s.repo.List(ctx, userID)
}

func (s *ProductService) Get(ctx context.Context, userID, id int64) (*domain.Product, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *ProductService) Create(ctx context.Context, userID int64, in domain.ProductInput) (*domain.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price is required", domain.ErrValidation)
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.dashboard, userID)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, userID, id int64, in domain.ProductInput) (*domain.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, userID, id, in)
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.dashboard, userID)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.dashboard, userID)
	return nil
}

func validateProductInput(in domain.ProductInput) error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
	}
	if in.CurrentStock != nil && *in.CurrentStock < 0 {
		return fmt.Errorf("%w: current_stock must be >= 0", domain.ErrValidation)
	}
	return nil
}

func invalidateDashboard(ctx context.Context, c cache.DashboardCache, userID int64) {
	if err := c.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("dashboard: cache invalidate failed")
	}
}
