package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/messaging"
	"github.com/egannguyen/go-orders-inventory/internal/repository"
)

// Topics for published domain events.
const (
	TopicOrdersCreated  = "orders.created"
	TopicOrdersPaid     = "orders.paid"
	TopicOrdersShipped  = "orders.shipped"
	TopicOrdersCanceled = "orders.canceled"
)

// OrderService orchestrates stock reservation and the order status machine.
type OrderService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	publisher   messaging.Publisher
}

func NewOrderService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	publisher messaging.Publisher,
) *OrderService {
	return &OrderService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// CreateProduct adds a catalog entry so orders have something to reserve.
func (s *OrderService) CreateProduct(ctx context.Context, p *entity.Product) error {
	if p.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return err
	}
	slog.Info("Product created", "product_id", p.ID, "sku", p.SKU, "stock", p.Stock)
	return nil
}

func (s *OrderService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *OrderService) ListProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.productRepo.FindAll(ctx, limit)
}

// CreateOrder reserves stock and records a PENDING order. On any failure no
// order is created and no stock is taken.
func (s *OrderService) CreateOrder(ctx context.Context, productID int64, quantity int) (*entity.Order, error) {
	if quantity <= 0 {
		return nil, entity.ErrInvalidQuantity
	}

	o, err := s.orderRepo.Create(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	slog.Info("Order created", "order_id", o.ID, "product_id", o.ProductID, "quantity", o.Quantity)
	s.publish(ctx, TopicOrdersCreated, o.ID, entity.OrderCreated{
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		CreatedAt: o.CreatedAt,
	})
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.orderRepo.FindRecent(ctx, limit)
}

// UpdateStatus applies a table-checked transition. This is the generic
// status surface: it never touches stock, even for a transition to CANCELED.
// Stock-restoring cancellation goes through Cancel.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, to entity.OrderStatus) (*entity.Order, error) {
	o, err := s.orderRepo.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}

	slog.Info("Order status updated", "order_id", o.ID, "status", o.Status)
	switch to {
	case entity.StatusPaid:
		s.publish(ctx, TopicOrdersPaid, o.ID, entity.OrderPaid{OrderID: o.ID, PaidAt: time.Now().UTC()})
	case entity.StatusShipped:
		s.publish(ctx, TopicOrdersShipped, o.ID, entity.OrderShipped{OrderID: o.ID, ShippedAt: time.Now().UTC()})
	case entity.StatusCanceled:
		s.publish(ctx, TopicOrdersCanceled, o.ID, entity.OrderCanceled{
			OrderID:    o.ID,
			ProductID:  o.ProductID,
			Quantity:   o.Quantity,
			CanceledAt: time.Now().UTC(),
		})
	}
	return o, nil
}

// Cancel transitions the order to CANCELED. A PENDING order gets its
// reservation back; a PAID order keeps the decrement (refund without
// restock). SHIPPED and CANCELED orders fail with InvalidTransitionError.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*entity.Order, error) {
	o, restored, err := s.orderRepo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	slog.Info("Order canceled", "order_id", o.ID, "stock_restored", restored)
	s.publish(ctx, TopicOrdersCanceled, o.ID, entity.OrderCanceled{
		OrderID:       o.ID,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		StockRestored: restored,
		CanceledAt:    time.Now().UTC(),
	})
	return o, nil
}

// MarkPaid moves an order to PAID on behalf of a payment notification.
// Already-PAID orders return unchanged. Orders in a state where PAID is not
// a legal target (SHIPPED, CANCELED) are left untouched and returned without
// error, matching webhook semantics.
func (s *OrderService) MarkPaid(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == entity.StatusPaid {
		return o, nil
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, entity.StatusPaid)
	var invalid *entity.InvalidTransitionError
	if errors.As(err, &invalid) {
		slog.Info("Payment for order in non-payable state ignored",
			"order_id", id, "status", o.Status)
		return o, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Order marked paid", "order_id", updated.ID)
	s.publish(ctx, TopicOrdersPaid, updated.ID, entity.OrderPaid{OrderID: updated.ID, PaidAt: time.Now().UTC()})
	return updated, nil
}

// publish runs after the state has committed; a broker failure must not fail
// the request, so it is logged and dropped.
func (s *OrderService) publish(ctx context.Context, topic string, orderID int64, event entity.Event) {
	key := strconv.FormatInt(orderID, 10)
	if err := s.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		slog.Error("Failed to publish event", "topic", topic, "event", event.EventType(), "err", err)
	}
}
