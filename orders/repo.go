package orders

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repo stores completed orders in Postgres. It is optional: a nil Repo
// disables history without affecting dispatch.
type Repo struct {
	db *sqlx.DB
}

// NewRepo wraps the given database handle.
func NewRepo(db *sqlx.DB) *Repo {
	if db == nil {
		return nil
	}
	return &Repo{db: db}
}

// Insert persists one order record.
func (r *Repo) Insert(ctx context.Context, rec Record) error {
	const q = `
		INSERT INTO orders (id, user_id, username, phone, product_name, latitude, longitude, created_at)
		VALUES (:id, :user_id, :username, :phone, :product_name, :latitude, :longitude, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, rec); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

// Recent returns the newest orders, most recent first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
		SELECT id, user_id, username, phone, product_name, latitude, longitude, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`
	var recs []Record
	if err := r.db.SelectContext(ctx, &recs, q, limit); err != nil {
		return nil, fmt.Errorf("orders: recent: %w", err)
	}
	return recs, nil
}
