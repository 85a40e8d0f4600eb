package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, user_id, name, sku, category, price, current_stock, description, created_at, updated_at`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &products, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		ORDER BY user_id, id`

	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list all products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Get(ctx context.Context, userID, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND user_id = $2`

	var p domain.Product
	if err := sqlx.GetContext(ctx, r.db, &p, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, userID int64, in domain.ProductInput) (*domain.Product, error) {
	var name string
	if in.Name != nil {
		name = *in.Name
	}
	var price int64
	if in.Price != nil {
		price = *in.Price
	}
	stock := 0
	if in.CurrentStock != nil {
		stock = *in.CurrentStock
	}

	query := `
		INSERT INTO products (user_id, name, sku, category, price, current_stock, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, query,
		userID, name, in.SKU, in.Category, price, stock, in.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, userID, id int64, in domain.ProductInput) (*domain.Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($3, name),
			sku = COALESCE($4, sku),
			category = COALESCE($5, category),
			price = COALESCE($6, price),
			current_stock = COALESCE($7, current_stock),
			description = COALESCE($8, description),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + productColumns

	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, query,
		id, userID, in.Name, in.SKU, in.Category, in.Price, in.CurrentStock, in.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return expectAffected(res)
}

func (r *productRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// expectAffected maps a write that touched no rows to domain.ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
