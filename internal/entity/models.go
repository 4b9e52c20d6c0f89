package entity

import (
	"time"
)

// Product represents a catalog entry with its available stock.
type Product struct {
	ID    int64   `json:"id"`
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Order represents a customer order for a single product.
// Quantity and CreatedAt are immutable after creation; Status advances
// only through the transition table in status.go.
type Order struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
