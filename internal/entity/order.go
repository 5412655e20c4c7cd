package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
	Store   Store     `gorm:"constraint:OnDelete:CASCADE"`

	CustomerName  string  `gorm:"type:varchar(150);not null"`
	CustomerEmail *string `gorm:"type:varchar(255)"`

	Status OrderStatus `gorm:"type:varchar(20);default:'pending';not null"`

	// TotalCents is always recomputed from the items, never accepted
	// from client input.
	TotalCents int64 `gorm:"not null"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots the product at time of sale so later price or name
// changes do not rewrite order history.
type OrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`

	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string    `gorm:"type:varchar(200);not null"`
	SKU         string    `gorm:"type:varchar(64);not null"`

	UnitPriceCents int64 `gorm:"not null"`
	Quantity       int   `gorm:"not null"`
	SubtotalCents  int64 `gorm:"not null"`

	CreatedAt time.Time
}
