package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a guard-scoped refresh-token record. PrincipalID refers to the
// row of the guard's principal table, not the underlying User.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	PrincipalID uuid.UUID `gorm:"type:uuid;not null;index"`
	Guard       Guard     `gorm:"type:varchar(20);not null"`

	TokenHash string `gorm:"type:text;not null;index"`
	Remember  bool   `gorm:"default:false"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	ExpiresAt time.Time
	RevokedAt *time.Time

	CreatedAt time.Time
}
