package repository

import (
	"context"
	"errors"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OneTimeCodeRepository interface {
	Create(ctx context.Context, code *entity.OneTimeCode) error
	FindValid(ctx context.Context, userID uuid.UUID, code string) (*entity.OneTimeCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	CleanupExpired(ctx context.Context) error
}

type oneTimeCodeRepository struct {
	db *gorm.DB
}

func NewOneTimeCodeRepository(db *gorm.DB) OneTimeCodeRepository {
	return &oneTimeCodeRepository{db: db}
}

func (r *oneTimeCodeRepository) Create(ctx context.Context, code *entity.OneTimeCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *oneTimeCodeRepository) FindValid(ctx context.Context, userID uuid.UUID, code string) (*entity.OneTimeCode, error) {
	var row entity.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND expires_at > NOW()", userID, code).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *oneTimeCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.OneTimeCode{}).Error
}

func (r *oneTimeCodeRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.OneTimeCode{}).Error
}

func (r *oneTimeCodeRepository) CleanupExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("expires_at < NOW()").Delete(&entity.OneTimeCode{}).Error
}
