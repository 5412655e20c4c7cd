package handler

import (
	"net/http"

	"storehub/internal/dto"
	"storehub/internal/entity"
	"storehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler exposes principal provisioning. The guard comes from the
// :guard path segment so one route set covers admins, owners and staff.
type AdminHandler struct {
	Service  *service.AdminService
	Validate *validator.Validate
}

func NewAdminHandler(svc *service.AdminService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{Service: svc, Validate: validate}
}

func (h *AdminHandler) Provision(c echo.Context) error {
	guard, err := entity.ParseGuard(c.Param("guard"))
	if err != nil {
		return writeServiceError(c, err)
	}

	var req dto.ProvisionRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	input := service.ProvisionInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Phone:       req.Phone,
		Permissions: req.Permissions,
	}
	if req.StoreID != nil {
		storeID, err := uuid.Parse(*req.StoreID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
		}
		input.StoreID = &storeID
	}

	principal, err := h.Service.ProvisionPrincipal(c.Request().Context(), guard, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.OKMessage("principal created", dto.PrincipalResponseFromEntity(principal)))
}

func (h *AdminHandler) Revoke(c echo.Context) error {
	guard, err := entity.ParseGuard(c.Param("guard"))
	if err != nil {
		return writeServiceError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid principal id"))
	}
	if err := h.Service.RevokePrincipal(c.Request().Context(), guard, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("principal revoked", nil))
}

func (h *AdminHandler) List(c echo.Context) error {
	guard, err := entity.ParseGuard(c.Param("guard"))
	if err != nil {
		return writeServiceError(c, err)
	}
	limit, offset := parseLimitOffset(c)
	principals, err := h.Service.ListPrincipals(c.Request().Context(), guard, limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.PrincipalResponsesFromEntities(principals)))
}
