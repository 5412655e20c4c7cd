package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"storehub/internal/entity"
	"storehub/internal/utils"
)

type OTPDelivery string

const (
	OTPDeliveryEmail OTPDelivery = "email"
	OTPDeliverySMS   OTPDelivery = "sms"
)

func ParseOTPDelivery(value string) (OTPDelivery, error) {
	switch OTPDelivery(value) {
	case "":
		return OTPDeliveryEmail, nil
	case OTPDeliveryEmail, OTPDeliverySMS:
		return OTPDelivery(value), nil
	}
	return "", ErrInvalidInput
}

type ChallengeInfo struct {
	Guard        entity.Guard
	LoginPath    string
	Method       OTPDelivery
	OTPExpiresAt time.Time
}

// DescribeChallenge backs the GET on the shared challenge route: it makes
// sure a usable code exists (issuing one over the requested channel when the
// stored code is absent or expired) and reports what the form should show.
func (s *AuthService) DescribeChallenge(ctx context.Context, token string, method OTPDelivery) (*ChallengeInfo, error) {
	return s.issueOTP(ctx, token, method, false)
}

// ResendChallengeOTP regenerates and redelivers the code even when a valid
// one is still pending.
func (s *AuthService) ResendChallengeOTP(ctx context.Context, token string, method OTPDelivery) (*ChallengeInfo, error) {
	return s.issueOTP(ctx, token, method, true)
}

func (s *AuthService) issueOTP(ctx context.Context, token string, method OTPDelivery, force bool) (*ChallengeInfo, error) {
	challengeID, state, err := s.loadChallenge(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, state.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrChallengeExpired
	}

	if method == "" {
		method = OTPDeliveryEmail
	}
	if method == OTPDeliverySMS && user.Phone == nil {
		return nil, ErrPhoneRequired
	}

	code, regenerated, err := s.ensureChallengeCode(ctx, challengeID, state, force)
	if err != nil {
		return nil, err
	}

	delivered := method
	fellBack := false
	if method == OTPDeliverySMS {
		if err := s.smsSender.SendOTP(ctx, *user.Phone, code); err != nil {
			// SMS trouble never blocks the flow; fall back to email.
			s.warn(err, "sms otp dispatch failed, falling back to email")
			_ = s.logSecurity(ctx, &user.ID, &state.Guard, nil, entity.OTPFallback, nil)
			delivered = OTPDeliveryEmail
			fellBack = true
		}
	}
	if delivered == OTPDeliveryEmail && (regenerated || force || fellBack) {
		s.dispatchOTPEmail(user.Email, code, state.OTPExpiresAt)
	}

	_ = s.logSecurity(ctx, &user.ID, &state.Guard, nil, entity.OTPSent, map[string]any{"method": string(delivered)})
	return &ChallengeInfo{
		Guard:        state.Guard,
		LoginPath:    state.Guard.LoginPath(),
		Method:       delivered,
		OTPExpiresAt: state.OTPExpiresAt,
	}, nil
}

// dispatchOTPEmail queues delivery without blocking the request. A failed
// send is logged; the user resends manually.
func (s *AuthService) dispatchOTPEmail(email string, code string, expiresAt time.Time) {
	if s.emailSender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.emailSender.SendOTPEmail(ctx, email, code, expiresAt); err != nil {
			s.warn(err, "otp email dispatch failed")
		}
	}()
}

// ensureChallengeCode reuses a still-valid stored code unless force is set;
// an absent or expired code is regenerated and written back to the store.
func (s *AuthService) ensureChallengeCode(ctx context.Context, challengeID string, state *ChallengeState, force bool) (string, bool, error) {
	if !force && state.OTPValid(s.now()) {
		return state.OTPCode, false, nil
	}

	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return "", false, err
	}
	state.OTPCode = code
	state.OTPExpiresAt = s.now().Add(s.config.otpTTL())
	if err := s.challenges.Put(ctx, challengeID, state); err != nil {
		return "", false, err
	}
	return code, true, nil
}

// VerifyChallengeCode tries the three accepted code sources in order: the
// stored challenge OTP, the user's confirmed TOTP secret, and the persisted
// one-time-code table. Every failure collapses to ErrInvalidCode.
func (s *AuthService) VerifyChallengeCode(ctx context.Context, token string, code string, ipAddress *string, userAgent *string) (*LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidInput
	}

	challengeID, state, err := s.loadChallenge(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, state.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrChallengeExpired
	}

	matched := false

	if state.OTPValid(s.now()) &&
		subtle.ConstantTimeCompare([]byte(state.OTPCode), []byte(code)) == 1 {
		matched = true
	}

	if !matched && user.HasConfirmedTOTP() && s.totp.ValidateCode(*user.TOTPSecret, code) {
		matched = true
	}

	if !matched && s.oneTimeCodes != nil {
		row, err := s.oneTimeCodes.FindValid(ctx, user.ID, code)
		if err != nil {
			return nil, err
		}
		if row != nil {
			if err := s.oneTimeCodes.Delete(ctx, row.ID); err != nil {
				return nil, err
			}
			matched = true
		}
	}

	if !matched {
		_ = s.logSecurity(ctx, &user.ID, &state.Guard, ipAddress, entity.ChallengeFailed, nil)
		return nil, ErrInvalidCode
	}

	return s.finalizeChallenge(ctx, challengeID, ipAddress, userAgent)
}

// VerifyRecoveryCode burns a single recovery code: the matched code is
// removed from the encrypted list before the session is finalized, so it can
// never be accepted again. The remaining codes stay valid.
func (s *AuthService) VerifyRecoveryCode(ctx context.Context, token string, recoveryCode string, ipAddress *string, userAgent *string) (*LoginResult, error) {
	recoveryCode = strings.ToUpper(strings.TrimSpace(recoveryCode))
	if recoveryCode == "" {
		return nil, ErrInvalidInput
	}

	challengeID, state, err := s.loadChallenge(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, state.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrChallengeExpired
	}
	if user.RecoveryCodes == nil || s.recoveryCipher == nil {
		return nil, ErrInvalidCode
	}

	codes, err := s.recoveryCipher.Decrypt(*user.RecoveryCodes)
	if err != nil {
		// A malformed stored payload is an operator problem, not a user one.
		s.warn(err, "recovery code payload could not be decrypted")
		return nil, ErrVerificationFailed
	}

	index := -1
	for i, candidate := range codes {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(recoveryCode)) == 1 {
			index = i
			break
		}
	}
	if index < 0 {
		_ = s.logSecurity(ctx, &user.ID, &state.Guard, ipAddress, entity.ChallengeFailed, map[string]any{"recovery": true})
		return nil, ErrInvalidCode
	}

	remaining := append(codes[:index:index], codes[index+1:]...)
	encrypted, err := s.recoveryCipher.Encrypt(remaining)
	if err != nil {
		return nil, err
	}
	user.RecoveryCodes = &encrypted
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	_ = s.logSecurity(ctx, &user.ID, &state.Guard, ipAddress, entity.RecoveryCodeUsed, map[string]any{"remaining": len(remaining)})
	return s.finalizeChallenge(ctx, challengeID, ipAddress, userAgent)
}

// finalizeChallenge consumes the pending challenge atomically and commits
// the principal into its guard session. A second call on an already-consumed
// challenge finds no state and establishes nothing.
func (s *AuthService) finalizeChallenge(ctx context.Context, challengeID string, ipAddress *string, userAgent *string) (*LoginResult, error) {
	state, err := s.challenges.Consume(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrChallengeExpired
	}

	principal, err := s.principals.FindByID(ctx, state.Guard, state.PrincipalID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, ErrChallengeExpired
	}

	result, err := s.establishSession(ctx, principal, state.Remember, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &state.UserID, &state.Guard, ipAddress, entity.ChallengePassed, nil)
	return result, nil
}

// loadChallenge maps a signed challenge token to live state. Every failure
// mode (bad signature, unknown id, expired state) reads as an expired
// challenge to the caller.
func (s *AuthService) loadChallenge(ctx context.Context, token string) (string, *ChallengeState, error) {
	if strings.TrimSpace(token) == "" {
		return "", nil, ErrChallengeExpired
	}
	challengeID, guard, err := s.challengeTokens.Parse(token)
	if err != nil {
		return "", nil, ErrChallengeExpired
	}
	state, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return "", nil, err
	}
	if state == nil || state.Guard != guard {
		return "", nil, ErrChallengeExpired
	}
	if !s.now().Before(state.ExpiresAt) {
		return "", nil, ErrChallengeExpired
	}
	return challengeID, state, nil
}
