package service

import (
	"context"
	"strings"

	"storehub/internal/entity"
	"storehub/internal/repository"

	"github.com/google/uuid"
)

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products}
}

type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateOrderInput struct {
	StoreID       uuid.UUID
	CustomerName  string
	CustomerEmail *string
	Items         []OrderItemInput
}

// Create snapshots each product into an order item and computes the total
// server-side: subtotal = unit price x quantity, total = sum of subtotals.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &entity.Order{
		StoreID:       input.StoreID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: input.CustomerEmail,
		Status:        entity.OrderStatusPending,
	}

	updatedProducts := make([]*entity.Product, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.StoreID != input.StoreID || !product.IsActive {
			return nil, ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return nil, ErrInsufficientStock
		}

		subtotal := product.PriceCents * int64(item.Quantity)
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			SKU:            product.SKU,
			UnitPriceCents: product.PriceCents,
			Quantity:       item.Quantity,
			SubtotalCents:  subtotal,
		})
		order.TotalCents += subtotal

		product.Stock -= item.Quantity
		updatedProducts = append(updatedProducts, product)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	for _, product := range updatedProducts {
		if err := s.products.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, storeID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, storeID, orderID uuid.UUID) error {
	order, err := s.Get(ctx, storeID, orderID)
	if err != nil {
		return err
	}
	return s.orders.Delete(ctx, order.ID)
}

func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) ([]entity.Order, int64, error) {
	return s.orders.List(ctx, filter)
}
