package dto

import (
	"time"

	"storehub/internal/entity"
)

type StoreCreateRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Slug    string  `json:"slug" validate:"required,max=150,lowercase"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address"`
}

type StoreUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=150"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func StoreResponseFromEntity(store *entity.Store) StoreResponse {
	return StoreResponse{
		ID:        store.ID.String(),
		Name:      store.Name,
		Slug:      store.Slug,
		Phone:     store.Phone,
		Address:   store.Address,
		IsActive:  store.IsActive,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}
}

func StoreResponsesFromEntities(stores []entity.Store) []StoreResponse {
	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, StoreResponseFromEntity(&stores[i]))
	}
	return responses
}
