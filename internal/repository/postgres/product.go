package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/repository"
)

// uniqueViolation is the Postgres error code for duplicate unique keys.
const uniqueViolation = "23505"

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a ProductRepository and StockLedger backed by
// Postgres.
func NewProductRepository(db *sql.DB) interface {
	repository.ProductRepository
	repository.StockLedger
} {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (sku, name, price, stock) VALUES ($1, $2, $3, $4) RETURNING id",
		p.SKU, p.Name, p.Price, p.Stock,
	).Scan(&p.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entity.ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, sku, name, price, stock FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock)
	if err == sql.ErrNoRows {
		return nil, entity.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) FindAll(ctx context.Context, limit int) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, sku, name, price, stock FROM products ORDER BY id LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) Reserve(ctx context.Context, productID int64, quantity int) error {
	return reserveStock(ctx, r.db, productID, quantity)
}

func (r *productRepository) Release(ctx context.Context, productID int64, quantity int) error {
	return releaseStock(ctx, r.db, productID, quantity)
}

// execer is satisfied by both *sql.DB and *sql.Tx, so the stock operations
// can run standalone or inside the transaction that records the order.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// reserveStock is a guarded single-statement decrement: the WHERE clause is
// the compare half of compare-and-decrement, so stock can never go negative
// regardless of concurrent reservations.
func reserveStock(ctx context.Context, q execer, productID int64, quantity int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
		quantity, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: either the product is missing or stock was short.
	var available int
	err = q.QueryRowContext(ctx, "SELECT stock FROM products WHERE id = $1", productID).Scan(&available)
	if err == sql.ErrNoRows {
		return entity.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query stock: %w", err)
	}
	return &entity.InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
}

func releaseStock(ctx context.Context, q execer, productID int64, quantity int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE products SET stock = stock + $1 WHERE id = $2",
		quantity, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrProductNotFound
	}
	return nil
}
