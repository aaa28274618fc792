package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/Guizzs26/go-order-guard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Insert(ctx context.Context, o models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, o.ID, o.UserID, o.Amount, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	query := `
		SELECT id, user_id, amount, status, created_at
		FROM orders
		WHERE id = $1
	`

	var o models.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.Amount, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to fetch order: %w", err)
	}

	return o, nil
}

// Cancel flips an order to cancelled. The status guard lives in the WHERE
// clause so the created -> cancelled transition is one-way even under
// concurrent cancels
func (r *OrderRepository) Cancel(ctx context.Context, id string) (models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING id, user_id, amount, status, created_at
	`

	var o models.Order
	err := r.pool.QueryRow(ctx, query, id, models.OrderStatusCancelled, models.OrderStatusCreated).
		Scan(&o.ID, &o.UserID, &o.Amount, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish "no such order" from "already cancelled"
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return models.Order{}, ErrAlreadyCancelled
		}
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to cancel order: %w", err)
	}

	return o, nil
}
