package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
)

// Order is an append-only ledger entry. Items are free-text snapshots of what
// was sold, not references into the catalog; confirming an order does not touch
// product stock.
type Order struct {
	ID           string      `gorm:"size:40;primaryKey" json:"id"`
	CustomerName string      `gorm:"size:140" json:"customerName"`
	Items        []OrderItem `json:"items"`
	Total        float64     `gorm:"type:decimal(12,2)" json:"total"`
	Date         string      `gorm:"size:20" json:"date"`
	Status       OrderStatus `gorm:"type:varchar(20)" json:"status"`
	CreatedAt    time.Time   `json:"-"`
}

type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID  string    `gorm:"size:40;index" json:"-"`
	Name     string    `gorm:"size:180" json:"name"`
	Price    float64   `gorm:"type:decimal(12,2)" json:"price"`
	Quantity int       `gorm:"not null" json:"quantity"`
}
