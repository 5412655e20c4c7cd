package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	LoginSuccess     SecurityAction = "login_success"
	LoginFailed      SecurityAction = "login_failed"
	ChallengeCreated SecurityAction = "challenge_created"
	ChallengePassed  SecurityAction = "challenge_passed"
	ChallengeFailed  SecurityAction = "challenge_failed"
	OTPSent          SecurityAction = "otp_sent"
	OTPFallback      SecurityAction = "otp_fallback"
	RecoveryCodeUsed SecurityAction = "recovery_code_used"
	TwoFactorEnabled SecurityAction = "two_factor_enabled"
	TwoFactorRemoved SecurityAction = "two_factor_removed"
	Logout           SecurityAction = "logout"
	SessionRevoked   SecurityAction = "session_revoked"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	Guard     *Guard         `gorm:"type:varchar(20)"`
	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:varchar(30);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
