// Package memory provides a mutex-guarded in-memory implementation of the
// repository interfaces. It backs local development when no DATABASE_URL is
// set, and the package tests. One lock covers products and orders, so a stock
// reservation and its order record commit as a single critical section.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
)

// Store holds all state behind a single mutex. Products and Orders return
// the repository views sharing that state.
type Store struct {
	mu            sync.Mutex
	products      map[int64]*entity.Product
	orders        map[int64]*entity.Order
	skus          map[string]int64
	nextProductID int64
	nextOrderID   int64
}

func New() *Store {
	return &Store{
		products: make(map[int64]*entity.Product),
		orders:   make(map[int64]*entity.Order),
		skus:     make(map[string]int64),
	}
}

// Products returns the product repository and stock ledger view.
func (s *Store) Products() *ProductStore { return &ProductStore{s: s} }

// Orders returns the order repository view.
func (s *Store) Orders() *OrderStore { return &OrderStore{s: s} }

func (s *Store) reserveLocked(productID int64, quantity int) error {
	p, ok := s.products[productID]
	if !ok {
		return entity.ErrProductNotFound
	}
	if p.Stock < quantity {
		return &entity.InsufficientStockError{ProductID: productID, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	return nil
}

func (s *Store) releaseLocked(productID int64, quantity int) error {
	p, ok := s.products[productID]
	if !ok {
		return entity.ErrProductNotFound
	}
	p.Stock += quantity
	return nil
}

// ProductStore implements repository.ProductRepository and
// repository.StockLedger.
type ProductStore struct {
	s *Store
}

func (r *ProductStore) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.skus[p.SKU]; taken {
		return entity.ErrDuplicateSKU
	}
	r.s.nextProductID++
	p.ID = r.s.nextProductID
	cp := *p
	r.s.products[p.ID] = &cp
	r.s.skus[p.SKU] = p.ID
	return nil
}

func (r *ProductStore) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, entity.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProductStore) FindAll(ctx context.Context, limit int) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var products []entity.Product
	for id := int64(1); id <= r.s.nextProductID && len(products) < limit; id++ {
		if p, ok := r.s.products[id]; ok {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (r *ProductStore) Reserve(ctx context.Context, productID int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.reserveLocked(productID, quantity)
}

func (r *ProductStore) Release(ctx context.Context, productID int64, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.releaseLocked(productID, quantity)
}

// OrderStore implements repository.OrderRepository.
type OrderStore struct {
	s *Store
}

func (r *OrderStore) Create(ctx context.Context, productID int64, quantity int) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.reserveLocked(productID, quantity); err != nil {
		return nil, err
	}
	r.s.nextOrderID++
	o := &entity.Order{
		ID:        r.s.nextOrderID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    entity.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	r.s.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (r *OrderStore) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *OrderStore) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var orders []entity.Order
	for id := r.s.nextOrderID; id >= 1 && len(orders) < limit; id-- {
		if o, ok := r.s.orders[id]; ok {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (r *OrderStore) UpdateStatus(ctx context.Context, id int64, to entity.OrderStatus) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	if o.Status == to {
		cp := *o
		return &cp, nil
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, &entity.InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

func (r *OrderStore) Cancel(ctx context.Context, id int64) (*entity.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, false, entity.ErrOrderNotFound
	}
	if o.Status == entity.StatusShipped || o.Status == entity.StatusCanceled {
		return nil, false, &entity.InvalidTransitionError{From: o.Status, To: entity.StatusCanceled}
	}

	restored := o.Status == entity.StatusPending
	if restored {
		if err := r.s.releaseLocked(o.ProductID, o.Quantity); err != nil {
			return nil, false, err
		}
	}
	o.Status = entity.StatusCanceled
	cp := *o
	return &cp, restored, nil
}
