package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_store_sku"`
	Store   Store     `gorm:"constraint:OnDelete:CASCADE"`

	Name string `gorm:"type:varchar(200);not null"`
	SKU  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_store_sku"`

	// PriceCents avoids floating point money arithmetic.
	PriceCents int64 `gorm:"not null"`
	Stock      int   `gorm:"default:0"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
