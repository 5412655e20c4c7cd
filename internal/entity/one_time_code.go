package entity

import (
	"time"

	"github.com/google/uuid"
)

// OneTimeCode is the persisted fallback OTP: rows are keyed by user id and
// deleted on successful verification, so a code can never validate twice.
type OneTimeCode struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Code      string `gorm:"type:varchar(12);not null"`
	ExpiresAt time.Time

	CreatedAt time.Time
}
