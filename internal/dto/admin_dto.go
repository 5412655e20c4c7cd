package dto

import "storehub/internal/entity"

type ProvisionRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"omitempty,max=100"`
	Password    string   `json:"password" validate:"omitempty,min=8"`
	Phone       *string  `json:"phone" validate:"omitempty,max=32"`
	StoreID     *string  `json:"store_id" validate:"omitempty,uuid"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,max=64"`
}

type PrincipalResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Guard       string   `json:"guard"`
	StoreID     *string  `json:"store_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func PrincipalResponseFromEntity(principal *entity.Principal) PrincipalResponse {
	response := PrincipalResponse{
		ID:          principal.ID.String(),
		UserID:      principal.UserID.String(),
		Guard:       string(principal.Guard),
		Permissions: principal.Permissions,
	}
	if principal.StoreID != nil {
		storeID := principal.StoreID.String()
		response.StoreID = &storeID
	}
	return response
}

func PrincipalResponsesFromEntities(principals []entity.Principal) []PrincipalResponse {
	responses := make([]PrincipalResponse, 0, len(principals))
	for i := range principals {
		responses = append(responses, PrincipalResponseFromEntity(&principals[i]))
	}
	return responses
}
