package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/jmoiron/sqlx"
)

const alertColumns = `id, product_id, user_id, alert_type, severity, message, is_read, created_at`

type alertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *alertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) List(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return r.Recent(ctx, userID, 0)
}

// Recent returns the newest alerts first. A non-positive limit returns all.
func (r *alertRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.Alert, error) {
	query := `SELECT ` + alertColumns + `
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	alerts := []domain.Alert{}
	if err := sqlx.SelectContext(ctx, r.db, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) CreateBatch(ctx context.Context, userID, productID int64, events []forecast.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO alerts (product_id, user_id, alert_type, severity, message, is_read)
			VALUES ($1, $2, $3, $4, $5, FALSE)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, e := range events {
			if _, err := stmt.ExecContext(ctx, productID, userID, string(e.AlertType), string(e.Severity), e.Message); err != nil {
				return fmt.Errorf("failed to insert alert: %w", err)
			}
		}
		return nil
	})
}

func (r *alertRepository) MarkRead(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark alert %d read: %w", id, err)
	}
	return expectAffected(res)
}

func (r *alertRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", id, err)
	}
	return expectAffected(res)
}

func (r *alertRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n,
		`SELECT COUNT(*) FROM alerts WHERE user_id = $1 AND NOT is_read`, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}
	return n, nil
}
