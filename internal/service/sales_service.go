package service

import (
	"context"
	"fmt"
	"io"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/ingest"
	"github.com/andresuchdata/salescast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type SalesService struct {
	sales     repository.SalesRepository
	products  repository.ProductRepository
	dashboard cache.DashboardCache
	analysis  cache.AnalysisCache
}

func NewSalesService(
	sales repository.SalesRepository,
	products repository.ProductRepository,
	dashboard cache.DashboardCache,
	analysis cache.AnalysisCache,
) *SalesService {
	if dashboard == nil {
		dashboard = cache.NewNoopDashboardCache()
	}
	if analysis == nil {
		analysis = cache.NewNoopAnalysisCache()
	}
	return &SalesService{
		sales:     sales,
		products:  products,
		dashboard: dashboard,
		analysis:  analysis,
	}
}

func (s *SalesService) List(ctx context.Context, userID int64) ([]domain.Sale, error) {
	return s.sales.List(ctx, userID)
}

func (s *SalesService) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Sale, error) {
	if _, err := s.products.Get(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.sales.ListByProduct(ctx, userID, productID)
}

func (s *SalesService) Create(ctx context.Context, userID int64, in domain.SaleInput) (*domain.Sale, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}
	if _, err := s.products.Get(ctx, userID, in.ProductID); err != nil {
		return nil, err
	}

	sale, err := s.sales.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID, in.ProductID)
	return sale, nil
}

// BulkCreate validates every row before writing any of them.
func (s *SalesService) BulkCreate(ctx context.Context, userID int64, in []domain.SaleInput) (int, error) {
	if len(in) == 0 {
		return 0, fmt.Errorf("%w: sales must not be empty", domain.ErrValidation)
	}

	owned := make(map[int64]bool)
	for i, sale := range in {
		if err := validateSale(sale); err != nil {
			return 0, fmt.Errorf("sale %d: %w", i, err)
		}
		if owned[sale.ProductID] {
			continue
		}
		if _, err := s.products.Get(ctx, userID, sale.ProductID); err != nil {
			return 0, fmt.Errorf("sale %d: %w", i, err)
		}
		owned[sale.ProductID] = true
	}

	n, err := s.sales.BulkCreate(ctx, userID, in)
	if err != nil {
		return 0, err
	}
	for productID := range owned {
		s.invalidate(ctx, userID, productID)
	}
	return n, nil
}

// Import parses a sales file and stores its valid rows for productID.
func (s *SalesService) Import(ctx context.Context, userID, productID int64, r io.Reader, format ingest.Format) (*domain.ImportResult, error) {
	if _, err := s.products.Get(ctx, userID, productID); err != nil {
		return nil, err
	}

	parsed, err := ingest.Parse(r, format, productID)
	if err != nil {
		return nil, err
	}

	n, err := s.sales.BulkCreate(ctx, userID, parsed.Sales)
	if err != nil {
		return nil, fmt.Errorf("failed to store imported sales: %w", err)
	}
	s.invalidate(ctx, userID, productID)

	log.Info().
		Int64("user_id", userID).
		Int64("product_id", productID).
		Int("imported", n).
		Int("skipped", parsed.Skipped).
		Msg("sales file imported")

	return &domain.ImportResult{Imported: n, Skipped: parsed.Skipped}, nil
}

func (s *SalesService) invalidate(ctx context.Context, userID, productID int64) {
	invalidateDashboard(ctx, s.dashboard, userID)
	if err := s.analysis.InvalidateProduct(ctx, userID, productID); err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("analysis: cache invalidate failed")
	}
}

func validateSale(in domain.SaleInput) error {
	if in.ProductID <= 0 {
		return fmt.Errorf("%w: product_id is required", domain.ErrValidation)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", domain.ErrValidation)
	}
	if in.Revenue < 0 {
		return fmt.Errorf("%w: revenue must be >= 0", domain.ErrValidation)
	}
	if in.SaleDate.IsZero() {
		return fmt.Errorf("%w: sale_date is required", domain.ErrValidation)
	}
	return nil
}
