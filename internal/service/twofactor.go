package service

import (
	"context"
	"strings"

	"storehub/internal/entity"

	"github.com/google/uuid"
)

type TOTPEnrollment struct {
	Secret string
	KeyURL string
}

// EnrollTOTP stores a fresh, unconfirmed secret on the user. Logins are not
// gated until the secret is confirmed with a first valid code.
func (s *AuthService) EnrollTOTP(ctx context.Context, userID uuid.UUID) (*TOTPEnrollment, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return nil, err
	}
	keyURL, err := s.totp.KeyURL(user.Email, secret)
	if err != nil {
		return nil, err
	}

	user.TOTPSecret = &secret
	user.TwoFactorConfirmedAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return &TOTPEnrollment{Secret: secret, KeyURL: keyURL}, nil
}

// ConfirmTOTP verifies the first code from the authenticator, marks the
// secret confirmed and hands back the freshly generated recovery codes.
// This is the only moment the codes exist in plaintext outside the cipher.
func (s *AuthService) ConfirmTOTP(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TOTPSecret == nil {
		return nil, ErrTwoFactorNotEnrolled
	}
	if !s.totp.ValidateCode(*user.TOTPSecret, code) {
		return nil, ErrInvalidCode
	}

	codes, err := GenerateRecoveryCodes(s.config.recoveryCodeCount())
	if err != nil {
		return nil, err
	}
	encrypted, err := s.recoveryCipher.Encrypt(codes)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.TwoFactorConfirmedAt = &now
	user.RecoveryCodes = &encrypted
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	_ = s.logSecurity(ctx, &user.ID, nil, nil, entity.TwoFactorEnabled, map[string]any{"method": "totp"})
	return codes, nil
}

// EnableEmailTwoFactor turns on the email/SMS OTP gate for users without an
// authenticator app.
func (s *AuthService) EnableEmailTwoFactor(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.TwoFactorEmailEnabled = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, &user.ID, nil, nil, entity.TwoFactorEnabled, map[string]any{"method": "email"})
	return nil
}

// DisableTwoFactor clears every second factor: secret, confirmation,
// recovery codes, email gate and any persisted fallback codes.
func (s *AuthService) DisableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.TOTPSecret = nil
	user.TwoFactorConfirmedAt = nil
	user.TwoFactorEmailEnabled = false
	user.RecoveryCodes = nil
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if s.oneTimeCodes != nil {
		_ = s.oneTimeCodes.DeleteAllByUser(ctx, userID)
	}

	_ = s.logSecurity(ctx, &user.ID, nil, nil, entity.TwoFactorRemoved, nil)
	return nil
}

// RegenerateRecoveryCodes replaces the whole list; every previously issued
// code stops working.
func (s *AuthService) RegenerateRecoveryCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.TwoFactorEnabled() {
		return nil, ErrTwoFactorNotEnrolled
	}

	codes, err := GenerateRecoveryCodes(s.config.recoveryCodeCount())
	if err != nil {
		return nil, err
	}
	encrypted, err := s.recoveryCipher.Encrypt(codes)
	if err != nil {
		return nil, err
	}
	user.RecoveryCodes = &encrypted
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return codes, nil
}
