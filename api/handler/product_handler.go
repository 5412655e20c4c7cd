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

type ProductHandler struct {
	Products repository.ProductRepository
	Validate *validator.Validate
}

func NewProductHandler(products repository.ProductRepository, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{Products: products, Validate: validate}
}

func (h *ProductHandler) Create(c echo.Context) error {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	if err := authorizeStore(c, storeID); err != nil {
		return err
	}

	var req dto.ProductCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	ctx := c.Request().Context()
	existing, err := h.Products.FindBySKU(ctx, storeID, req.SKU)
	if err != nil {
		return writeServiceError(c, err)
	}
	if existing != nil {
		return writeServiceError(c, service.ErrSKUTaken)
	}

	product := &entity.Product{
		StoreID:    storeID,
		Name:       strings.TrimSpace(req.Name),
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		Stock:      req.Stock,
		IsActive:   true,
	}
	if err := h.Products.Create(ctx, product); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.OKMessage("product created", dto.ProductResponseFromEntity(product)))
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.ProductResponseFromEntity(product)))
}

func (h *ProductHandler) Update(c echo.Context) error {
	product, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ProductUpdateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.Products.Update(c.Request().Context(), product); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("product updated", dto.ProductResponseFromEntity(product)))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.load(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Products.Delete(c.Request().Context(), product.ID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("product deleted", nil))
}

func (h *ProductHandler) List(c echo.Context) error {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	if err := authorizeStore(c, storeID); err != nil {
		return err
	}

	page, perPage := parsePage(c)
	filter := repository.ProductFilter{
		StoreID: storeID,
		Search:  c.QueryParam("search"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	if raw := c.QueryParam("min_price_cents"); raw != "" {
		if price, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MinPriceCents = &price
		}
	}
	if raw := c.QueryParam("max_price_cents"); raw != "" {
		if price, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MaxPriceCents = &price
		}
	}

	products, total, err := h.Products.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.Paginated{
		Items:   dto.ProductResponsesFromEntities(products),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}))
}

// load resolves the product from the path and enforces store scoping. A
// product belonging to another store is reported as not found.
func (h *ProductHandler) load(c echo.Context) (*entity.Product, error) {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if err := authorizeStore(c, storeID); err != nil {
		return nil, err
	}
	productID, err := pathUUID(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	product, err := h.Products.FindByID(c.Request().Context(), productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, service.ErrProductNotFound
	}
	return product, nil
}
