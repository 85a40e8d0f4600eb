package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

const saleColumns = `id, product_id, user_id, quantity, revenue, sale_date, created_at`

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) List(ctx context.Context, userID int64) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales_history
		WHERE user_id = $1
		ORDER BY sale_date DESC, id DESC`

	sales := []domain.Sale{}
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (r *salesRepository) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales_history
		WHERE user_id = $1 AND product_id = $2
		ORDER BY sale_date DESC, id DESC`

	sales := []domain.Sale{}
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to list sales for product %d: %w", productID, err)
	}
	return sales, nil
}

func (r *salesRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales_history
		WHERE user_id = $1
		ORDER BY sale_date DESC, id DESC
		LIMIT $2`

	sales := []domain.Sale{}
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent sales: %w", err)
	}
	return sales, nil
}

func (r *salesRepository) Create(ctx context.Context, userID int64, in domain.SaleInput) (*domain.Sale, error) {
	query := `
		INSERT INTO sales_history (product_id, user_id, quantity, revenue, sale_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + saleColumns

	var s domain.Sale
	if err := sqlx.GetContext(ctx, r.db, &s, query, in.ProductID, userID, in.Quantity, in.Revenue, in.SaleDate); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return &s, nil
}

func (r *salesRepository) BulkCreate(ctx context.Context, userID int64, in []domain.SaleInput) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_history (product_id, user_id, quantity, revenue, sale_date)
			VALUES ($1, $2, $3, $4, $5)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, s := range in {
			if _, err := stmt.ExecContext(ctx, s.ProductID, userID, s.Quantity, s.Revenue, s.SaleDate); err != nil {
				return fmt.Errorf("failed to insert sale %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(in), nil
}

func (r *salesRepository) Totals(ctx context.Context, userID int64) (domain.SalesTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(revenue), 0) AS revenue,
			COALESCE(SUM(quantity), 0) AS quantity
		FROM sales_history
		WHERE user_id = $1`

	var totals domain.SalesTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, userID); err != nil {
		return domain.SalesTotals{}, fmt.Errorf("failed to sum sales: %w", err)
	}
	return totals, nil
}
