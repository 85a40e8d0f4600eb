package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const forecastColumns = `id, product_id, user_id, run_id, forecast_date, predicted_quantity,
	predicted_revenue, confidence, trend, seasonality_factor, created_at`

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) ReplaceForProduct(ctx context.Context, userID, productID int64, runID uuid.UUID, points []forecast.Point) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// 1. Drop the previous run
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM forecasts WHERE user_id = $1 AND product_id = $2`,
			userID, productID,
		); err != nil {
			return fmt.Errorf("failed to clear forecasts: %w", err)
		}

		// 2. Store the new run
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO forecasts (
				product_id, user_id, run_id, forecast_date, predicted_quantity,
				predicted_revenue, confidence, trend, seasonality_factor
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			_, err := stmt.ExecContext(ctx,
				productID,
				userID,
				runID,
				p.ForecastDate,
				p.PredictedQuantity,
				p.PredictedRevenue,
				p.Confidence,
				string(p.Trend),
				p.SeasonalityFactor,
			)
			if err != nil {
				return fmt.Errorf("failed to insert forecast: %w", err)
			}
		}
		return nil
	})
}

func (r *forecastRepository) List(ctx context.Context, userID int64) ([]domain.Forecast, error) {
	query := `SELECT ` + forecastColumns + `
		FROM forecasts
		WHERE user_id = $1
		ORDER BY product_id, forecast_date`

	rows := []domain.Forecast{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error) {
	query := `SELECT ` + forecastColumns + `
		FROM forecasts
		WHERE user_id = $1 AND product_id = $2
		ORDER BY forecast_date`

	rows := []domain.Forecast{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to list forecasts for product %d: %w", productID, err)
	}
	return rows, nil
}

func (r *forecastRepository) PredictedRevenue(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(predicted_revenue), 0)
		FROM forecasts
		WHERE user_id = $1 AND forecast_date >= $2 AND forecast_date <= $3`

	var total int64
	if err := sqlx.GetContext(ctx, r.db, &total, query, userID, from, to); err != nil {
		return 0, fmt.Errorf("failed to sum predicted revenue: %w", err)
	}
	return total, nil
}
