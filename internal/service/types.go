package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	RefreshTokenTTL    time.Duration
	RememberRefreshTTL time.Duration
	ChallengeTTL       time.Duration
	OTPTTL             time.Duration
	RecoveryCodeCount  int
}

func (c AuthConfig) refreshTokenTTL(remember bool) time.Duration {
	if remember {
		if c.RememberRefreshTTL > 0 {
			return c.RememberRefreshTTL
		}
		return 90 * 24 * time.Hour
	}
	if c.RefreshTokenTTL > 0 {
		return c.RefreshTokenTTL
	}
	return 7 * 24 * time.Hour
}

func (c AuthConfig) challengeTTL() time.Duration {
	if c.ChallengeTTL > 0 {
		return c.ChallengeTTL
	}
	return 10 * time.Minute
}

func (c AuthConfig) otpTTL() time.Duration {
	if c.OTPTTL > 0 {
		return c.OTPTTL
	}
	return 10 * time.Minute
}

func (c AuthConfig) recoveryCodeCount() int {
	if c.RecoveryCodeCount > 0 {
		return c.RecoveryCodeCount
	}
	return 10
}

type EmailSender interface {
	SendOTPEmail(ctx context.Context, email string, code string, expiresAt time.Time) error
}

type SMSSender interface {
	SendOTP(ctx context.Context, phone string, code string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type TOTPProvider interface {
	GenerateSecret() (string, error)
	KeyURL(email string, secret string) (string, error)
	ValidateCode(secret string, code string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
