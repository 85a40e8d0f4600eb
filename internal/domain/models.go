// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item owned by a user
type Product struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	SKU          *string   `json:"sku" db:"sku"`
	Category     *string   `json:"category" db:"category"`
	Price        int64     `json:"price" db:"price"` // cents
	CurrentStock *int      `json:"current_stock" db:"current_stock"`
	Description  *string   `json:"description" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductInput carries the writable fields of a product. Nil pointers are
// left untouched on update.
type ProductInput struct {
	Name         *string `json:"name"`
	SKU          *string `json:"sku"`
	Category     *string `json:"category"`
	Price        *int64  `json:"price"`
	CurrentStock *int    `json:"current_stock"`
	Description  *string `json:"description"`
}

// Sale represents one sales history row
type Sale struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Revenue   int64     `json:"revenue" db:"revenue"` // cents
	SaleDate  time.Time `json:"sale_date" db:"sale_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SaleInput is a sale submitted by a client or parsed from a file
type SaleInput struct {
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Revenue   int64     `json:"revenue"`
	SaleDate  time.Time `json:"sale_date"`
}

// Forecast is one persisted forecast day. Rows written by the same
// generation share a RunID.
type Forecast struct {
	ID                int64     `json:"id" db:"id"`
	ProductID         int64     `json:"product_id" db:"product_id"`
	UserID            int64     `json:"user_id" db:"user_id"`
	RunID             uuid.UUID `json:"run_id" db:"run_id"`
	ForecastDate      time.Time `json:"forecast_date" db:"forecast_date"`
	PredictedQuantity int       `json:"predicted_quantity" db:"predicted_quantity"`
	PredictedRevenue  int64     `json:"predicted_revenue" db:"predicted_revenue"`
	Confidence        int       `json:"confidence" db:"confidence"`
	Trend             string    `json:"trend" db:"trend"`
	SeasonalityFactor int       `json:"seasonality_factor" db:"seasonality_factor"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Alert is a persisted demand alert
type Alert struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	AlertType string    `json:"alert_type" db:"alert_type"`
	Severity  string    `json:"severity" db:"severity"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SalesTotals aggregates a user's sales history
type SalesTotals struct {
	Revenue  int64 `json:"revenue" db:"revenue"`
	Quantity int64 `json:"quantity" db:"quantity"`
}

// DashboardOverview is the landing page summary for a user
type DashboardOverview struct {
	TotalProducts    int     `json:"total_products"`
	TotalRevenue     int64   `json:"total_revenue"`
	TotalSales       int64   `json:"total_sales"`
	UnreadAlerts     int     `json:"unread_alerts"`
	PredictedRevenue int64   `json:"predicted_revenue"`
	RecentSales      []Sale  `json:"recent_sales"`
	RecentAlerts     []Alert `json:"recent_alerts"`
}

// ImportResult reports the outcome of a sales file import
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// GenerationResult reports the outcome of a forecast or alert generation
type GenerationResult struct {
	ProductID int64      `json:"product_id"`
	RunID     *uuid.UUID `json:"run_id,omitempty"`
	Count     int        `json:"count"`
}
