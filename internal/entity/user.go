package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record shared by every guard. Principal rows (Admin,
// StoreOwner, StoreStaff) each point at exactly one User.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`
	Name         string    `gorm:"type:varchar(100)"`
	Phone        *string   `gorm:"type:varchar(32)"`

	TOTPSecret            *string `gorm:"type:text"`
	TwoFactorConfirmedAt  *time.Time
	TwoFactorEmailEnabled bool `gorm:"default:false"`

	// RecoveryCodes holds the AES-GCM encrypted JSON list of unused
	// single-use recovery codes.
	RecoveryCodes *string `gorm:"type:text"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TwoFactorEnabled reports whether a successful password check must be
// suspended behind the shared challenge screen.
func (u *User) TwoFactorEnabled() bool {
	if u.TOTPSecret != nil && u.TwoFactorConfirmedAt != nil {
		return true
	}
	return u.TwoFactorEmailEnabled
}

// HasConfirmedTOTP reports whether codes may be checked against the TOTP
// secret. An enrolled but unconfirmed secret never validates logins.
func (u *User) HasConfirmedTOTP() bool {
	return u.TOTPSecret != nil && u.TwoFactorConfirmedAt != nil
}
