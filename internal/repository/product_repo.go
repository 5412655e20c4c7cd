package repository

import (
	"context"
	"errors"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	StoreID       uuid.UUID
	Search        string
	IsActive      *bool
	MinPriceCents *int64
	MaxPriceCents *int64
	Page          int
	PerPage       int
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter) ([]entity.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND sku = ?", storeID, sku).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Product{}).Error
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]entity.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("store_id = ?", filter.StoreID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.MinPriceCents != nil {
		query = query.Where("price_cents >= ?", *filter.MinPriceCents)
	}
	if filter.MaxPriceCents != nil {
		query = query.Where("price_cents <= ?", *filter.MaxPriceCents)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []entity.Product
	err := query.Order("created_at DESC").
		Limit(perPage(filter.PerPage)).
		Offset(pageOffset(filter.Page, filter.PerPage)).
		Find(&products).Error
	return products, total, err
}
