// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/google/uuid"
)

// Every method is scoped by the owning user. Lookups of rows owned by
// another user behave exactly like missing rows.

type ProductRepository interface {
	List(ctx context.Context, userID int64) ([]domain.Product, error)
	Get(ctx context.Context, userID, id int64) (*domain.Product, error)
	Create(ctx context.Context, userID int64, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, userID, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, userID, id int64) error
	Count(ctx context.Context, userID int64) (int, error)
	// ListAll returns products of every user, used by batch jobs.
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type SalesRepository interface {
	List(ctx context.Context, userID int64) ([]domain.Sale, error)
	ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Sale, error)
	Create(ctx context.Context, userID int64, in domain.SaleInput) (*domain.Sale, error)
	BulkCreate(ctx context.Context, userID int64, in []domain.SaleInput) (int, error)
	Totals(ctx context.Context, userID int64) (domain.SalesTotals, error)
	Recent(ctx context.Context, userID int64, limit int) ([]domain.Sale, error)
}

type ForecastRepository interface {
	// ReplaceForProduct drops the product's previous forecast rows and
	// stores points under runID in a single transaction.
	ReplaceForProduct(ctx context.Context, userID, productID int64, runID uuid.UUID, points []forecast.Point) error
	List(ctx context.Context, userID int64) ([]domain.Forecast, error)
	ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error)
	PredictedRevenue(ctx context.Context, userID int64, from, to time.Time) (int64, error)
}

type AlertRepository interface {
	List(ctx context.Context, userID int64) ([]domain.Alert, error)
	CreateBatch(ctx context.Context, userID, productID int64, events []forecast.AlertEvent) error
	MarkRead(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
	Recent(ctx context.Context, userID int64, limit int) ([]domain.Alert, error)
}
