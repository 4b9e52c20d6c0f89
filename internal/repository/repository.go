package repository

import (
	"context"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
)

// ProductRepository handles persistence for Products.
type ProductRepository interface {
	// Create inserts a new product and assigns its ID.
	// Returns entity.ErrDuplicateSKU if the SKU is taken.
	Create(ctx context.Context, p *entity.Product) error
	FindByID(ctx context.Context, id int64) (*entity.Product, error)
	FindAll(ctx context.Context, limit int) ([]entity.Product, error)
}

// StockLedger owns the authoritative stock count per product. Reserve is a
// compare-and-decrement: concurrent calls against the same product serialize
// and stock never goes below zero.
type StockLedger interface {
	// Reserve decrements stock by quantity. Returns entity.ErrProductNotFound
	// or *entity.InsufficientStockError.
	Reserve(ctx context.Context, productID int64, quantity int) error
	// Release adds quantity back, unconditionally of the current level.
	// The caller is responsible for calling it once per eligible order.
	Release(ctx context.Context, productID int64, quantity int) error
}

// OrderRepository handles persistence for Orders. The composed operations
// (Create, Cancel) pair their stock mutation with the order mutation in a
// single atomic unit: no observer sees one without the other.
type OrderRepository interface {
	// Create reserves stock and records a PENDING order atomically.
	Create(ctx context.Context, productID int64, quantity int) (*entity.Order, error)
	FindByID(ctx context.Context, id int64) (*entity.Order, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Order, error)
	// UpdateStatus applies a table-checked status transition. A transition to
	// the current status is a no-op success. Stock is never touched here.
	UpdateStatus(ctx context.Context, id int64, to entity.OrderStatus) (*entity.Order, error)
	// Cancel transitions to CANCELED, releasing the reservation iff the order
	// was still PENDING. SHIPPED and CANCELED orders are not cancelable.
	// The bool reports whether stock was restored.
	Cancel(ctx context.Context, id int64) (*entity.Order, bool, error)
}
