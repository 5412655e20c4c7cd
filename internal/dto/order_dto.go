package dto

import (
	"time"

	"storehub/internal/entity"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type OrderCreateRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required,max=150"`
	CustomerEmail *string            `json:"customer_email" validate:"omitempty,email"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderItemResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	SKU            string `json:"sku"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	StoreID       string              `json:"store_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail *string             `json:"customer_email,omitempty"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func OrderResponseFromEntity(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ID:             item.ID.String(),
			ProductID:      item.ProductID.String(),
			ProductName:    item.ProductName,
			SKU:            item.SKU,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			SubtotalCents:  item.SubtotalCents,
		})
	}
	return OrderResponse{
		ID:            order.ID.String(),
		StoreID:       order.StoreID.String(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Status:        string(order.Status),
		TotalCents:    order.TotalCents,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func OrderResponsesFromEntities(orders []entity.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, OrderResponseFromEntity(&orders[i]))
	}
	return responses
}
