package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	Guard         string `json:"guard,omitempty"`
	DashboardPath string `json:"dashboard_path,omitempty"`

	AccessToken      string `json:"access_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`

	TwoFactorRequired  bool   `json:"two_factor_required,omitempty"`
	ChallengeToken     string `json:"challenge_token,omitempty"`
	ChallengeExpiresIn int64  `json:"challenge_expires_in,omitempty"`
}

type ChallengeVerifyRequest struct {
	Code         string `json:"code" validate:"omitempty,min=6"`
	RecoveryCode string `json:"recovery_code" validate:"omitempty,min=8"`
}

type ChallengeResendRequest struct {
	Method string `json:"method" validate:"omitempty,oneof=email sms"`
}

type ChallengeResponse struct {
	Guard        string    `json:"guard"`
	LoginPath    string    `json:"login_path"`
	Method       string    `json:"method"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	KeyURL string `json:"key_url"`
}

type TOTPConfirmRequest struct {
	Code string `json:"code" validate:"required,min=6"`
}

type RecoveryCodesResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}
