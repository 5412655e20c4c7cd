package dto

import (
	"time"

	"storehub/internal/entity"
)

type ProductCreateRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	SKU        string `json:"sku" validate:"required,max=64"`
	PriceCents int64  `json:"price_cents" validate:"required,gt=0"`
	Stock      int    `json:"stock" validate:"gte=0"`
}

type ProductUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=200"`
	PriceCents *int64  `json:"price_cents" validate:"omitempty,gt=0"`
	Stock      *int    `json:"stock" validate:"omitempty,gte=0"`
	IsActive   *bool   `json:"is_active"`
}

type ProductResponse struct {
	ID         string    `json:"id"`
	StoreID    string    `json:"store_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ProductResponseFromEntity(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:         product.ID.String(),
		StoreID:    product.StoreID.String(),
		Name:       product.Name,
		SKU:        product.SKU,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
		IsActive:   product.IsActive,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func ProductResponsesFromEntities(products []entity.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ProductResponseFromEntity(&products[i]))
	}
	return responses
}
