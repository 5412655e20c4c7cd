package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storehub/internal/dto"
	"storehub/internal/entity"
	"storehub/internal/repository"
	"storehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type StoreHandler struct {
	Stores   repository.StoreRepository
	Validate *validator.Validate
}

func NewStoreHandler(stores repository.StoreRepository, validate *validator.Validate) *StoreHandler {
	return &StoreHandler{Stores: stores, Validate: validate}
}

func (h *StoreHandler) Create(c echo.Context) error {
	var req dto.StoreCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	ctx := c.Request().Context()
	existing, err := h.Stores.FindBySlug(ctx, req.Slug)
	if err != nil {
		return writeServiceError(c, err)
	}
	if existing != nil {
		return writeServiceError(c, service.ErrSlugTaken)
	}

	store := &entity.Store{
		Name:     strings.TrimSpace(req.Name),
		Slug:     req.Slug,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: true,
	}
	if err := h.Stores.Create(ctx, store); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.OKMessage("store created", dto.StoreResponseFromEntity(store)))
}

func (h *StoreHandler) Get(c echo.Context) error {
	storeID, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	store, err := h.Stores.FindByID(c.Request().Context(), storeID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if store == nil {
		return writeServiceError(c, service.ErrStoreNotFound)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.StoreResponseFromEntity(store)))
}

func (h *StoreHandler) Update(c echo.Context) error {
	storeID, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	var req dto.StoreUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	ctx := c.Request().Context()
	store, err := h.Stores.FindByID(ctx, storeID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if store == nil {
		return writeServiceError(c, service.ErrStoreNotFound)
	}

	if req.Name != nil {
		store.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		store.Phone = req.Phone
	}
	if req.Address != nil {
		store.Address = req.Address
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	if err := h.Stores.Update(ctx, store); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("store updated", dto.StoreResponseFromEntity(store)))
}

func (h *StoreHandler) Delete(c echo.Context) error {
	storeID, err := pathUUID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	if err := h.Stores.Delete(c.Request().Context(), storeID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("store deleted", nil))
}

func (h *StoreHandler) List(c echo.Context) error {
	page, perPage := parsePage(c)
	filter := repository.StoreFilter{
		Search:  c.QueryParam("search"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err == nil {
			filter.IsActive = &active
		}
	}

	stores, total, err := h.Stores.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.Paginated{
		Items:   dto.StoreResponsesFromEntities(stores),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}))
}
