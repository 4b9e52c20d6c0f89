package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create reserves stock and inserts the order in one transaction. If either
// half fails the transaction rolls back and nothing is observable.
func (r *orderRepository) Create(ctx context.Context, productID int64, quantity int) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := reserveStock(ctx, tx, productID, quantity); err != nil {
		return nil, err
	}

	o := &entity.Order{
		ProductID: productID,
		Quantity:  quantity,
		Status:    entity.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	err = tx.QueryRowContext(ctx,
		"INSERT INTO orders (product_id, quantity, status, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		o.ProductID, o.Quantity, o.Status, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return o, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, product_id, quantity, status, created_at FROM orders WHERE id = $1", id,
	).Scan(&o.ID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, product_id, quantity, status, created_at FROM orders ORDER BY created_at DESC LIMIT $1",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// lockOrder loads an order inside tx with a row lock, so concurrent status
// changes on the same order serialize.
func lockOrder(ctx context.Context, tx *sql.Tx, id int64) (*entity.Order, error) {
	var o entity.Order
	err := tx.QueryRowContext(ctx,
		"SELECT id, product_id, quantity, status, created_at FROM orders WHERE id = $1 FOR UPDATE", id,
	).Scan(&o.ID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, to entity.OrderStatus) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == to {
		// Idempotent re-application, nothing to write.
		return o, nil
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, &entity.InvalidTransitionError{From: o.Status, To: to}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", to, id); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.Status = to
	return o, nil
}

// Cancel transitions the order to CANCELED and, iff it was still PENDING,
// restores the reserved quantity in the same transaction. PAID orders keep
// their decrement (refund without restock).
func (r *orderRepository) Cancel(ctx context.Context, id int64) (*entity.Order, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}

	if o.Status == entity.StatusShipped || o.Status == entity.StatusCanceled {
		return nil, false, &entity.InvalidTransitionError{From: o.Status, To: entity.StatusCanceled}
	}

	restored := o.Status == entity.StatusPending
	if restored {
		if err := releaseStock(ctx, tx, o.ProductID, o.Quantity); err != nil {
			return nil, false, err
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", entity.StatusCanceled, id); err != nil {
		return nil, false, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.Status = entity.StatusCanceled
	return o, restored, nil
}
