package entity

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:varchar(150);not null"`
	Slug string    `gorm:"type:varchar(150);uniqueIndex;not null"`

	Phone   *string `gorm:"type:varchar(32)"`
	Address *string `gorm:"type:text"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
