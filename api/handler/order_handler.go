package handler

import (
	"net/http"
	"time"

	"storehub/internal/dto"
	"storehub/internal/entity"
	"storehub/internal/repository"
	"storehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	Service  *service.OrderService
	Validate *validator.Validate
}

func NewOrderHandler(svc *service.OrderService, validate *validator.Validate) *OrderHandler {
	return &OrderHandler{Service: svc, Validate: validate}
}

func (h *OrderHandler) Create(c echo.Context) error {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	if err := authorizeStore(c, storeID); err != nil {
		return err
	}

	var req dto.OrderCreateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	input := service.CreateOrderInput{
		StoreID:       storeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         make([]service.OrderItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.Fail("invalid product id"))
		}
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.Service.Create(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.OKMessage("order created", dto.OrderResponseFromEntity(order)))
}

func (h *OrderHandler) Get(c echo.Context) error {
	storeID, orderID, err := h.pathIDs(c)
	if err != nil {
		return err
	}
	order, err := h.Service.Get(c.Request().Context(), storeID, orderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.OrderResponseFromEntity(order)))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	storeID, orderID, err := h.pathIDs(c)
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.FailErrors("validation failed", err.Error()))
	}

	order, err := h.Service.UpdateStatus(c.Request().Context(), storeID, orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("order updated", dto.OrderResponseFromEntity(order)))
}

func (h *OrderHandler) Delete(c echo.Context) error {
	storeID, orderID, err := h.pathIDs(c)
	if err != nil {
		return err
	}
	if err := h.Service.Delete(c.Request().Context(), storeID, orderID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OKMessage("order deleted", nil))
}

func (h *OrderHandler) List(c echo.Context) error {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail("invalid store id"))
	}
	if err := authorizeStore(c, storeID); err != nil {
		return err
	}

	page, perPage := parsePage(c)
	filter := repository.OrderFilter{
		StoreID: storeID,
		Search:  c.QueryParam("search"),
		Page:    page,
		PerPage: perPage,
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := entity.OrderStatus(raw)
		if !status.Valid() {
			return writeServiceError(c, service.ErrInvalidStatus)
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &from
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &to
		}
	}

	orders, total, err := h.Service.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(dto.Paginated{
		Items:   dto.OrderResponsesFromEntities(orders),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}))
}

func (h *OrderHandler) pathIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	storeID, err := pathUUID(c, "store_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid store id")
	}
	if err := authorizeStore(c, storeID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return storeID, orderID, nil
}
