package entity

import "time"

// Event represents a domain event published to downstream consumers.
type Event interface {
	EventType() string
}

// OrderCreated is emitted after an order and its stock reservation commit.
type OrderCreated struct {
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (e OrderCreated) EventType() string { return "OrderCreated" }

// OrderPaid is emitted when a payment webhook marks an order paid.
type OrderPaid struct {
	OrderID int64     `json:"order_id"`
	PaidAt  time.Time `json:"paid_at"`
}

func (e OrderPaid) EventType() string { return "OrderPaid" }

// OrderShipped is emitted when an order transitions to SHIPPED.
type OrderShipped struct {
	OrderID   int64     `json:"order_id"`
	ShippedAt time.Time `json:"shipped_at"`
}

func (e OrderShipped) EventType() string { return "OrderShipped" }

// OrderCanceled is emitted when an order is canceled. StockRestored marks
// whether the reservation was returned to the product (PENDING orders only).
type OrderCanceled struct {
	OrderID       int64     `json:"order_id"`
	ProductID     int64     `json:"product_id"`
	Quantity      int       `json:"quantity"`
	StockRestored bool      `json:"stock_restored"`
	CanceledAt    time.Time `json:"canceled_at"`
}

func (e OrderCanceled) EventType() string { return "OrderCanceled" }
