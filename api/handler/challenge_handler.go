package handler

import (
	"net/http"

	"storehub/internal/dto"
	"storehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ChallengeHandler serves the single shared two-factor challenge route used
// by every guard. The pending challenge travels as an http-only cookie set
// at login (with a header fallback for non-browser clients).
type ChallengeHandler struct {
	Auth     *AuthHandler
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewChallengeHandler(auth *AuthHandler, svc *service.AuthService, validate *validator.Validate) *ChallengeHandler {
	return &ChallengeHandler{Auth: auth, Service: svc, Validate: validate}
}

// Show describes the pending challenge. Loading it issues an email OTP as a
// side effect when no valid code is pending; `method=sms` selects SMS.
func (h *ChallengeHandler) Show(c echo.Context) error {
	method, err := service.ParseOTPDelivery(c.QueryParam("method"))
	if err != nil {
		return writeServiceError(c, err)
	}
	info, err := h.Service.DescribeChallenge(c.Request().Context(), h.challengeToken(c), method)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, challengeResponse(info))
}

// Verify accepts either a code (session OTP, TOTP or persisted fallback) or
// a recovery code. On success the guard session is established and the
// challenge cookie cleared.
func (h *ChallengeHandler) Verify(c echo.Context) error {
	var req dto.ChallengeVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if req.Code == "" && req.RecoveryCode == "" {
		return writeError(c, http.StatusBadRequest, service.ErrInvalidInput)
	}

	token := h.challengeToken(c)
	ip := stringPtr(c.RealIP())
	agent := stringPtr(c.Request().UserAgent())

	var result *service.LoginResult
	var err error
	if req.RecoveryCode != "" {
		result, err = h.Service.VerifyRecoveryCode(c.Request().Context(), token, req.RecoveryCode, ip, agent)
	} else {
		result, err = h.Service.VerifyChallengeCode(c.Request().Context(), token, req.Code, ip, agent)
	}
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.Auth.writeSession(c, result)
}

// Resend forces a fresh code over the requested channel.
func (h *ChallengeHandler) Resend(c echo.Context) error {
	var req dto.ChallengeResendRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	method, err := service.ParseOTPDelivery(req.Method)
	if err != nil {
		return writeServiceError(c, err)
	}
	info, err := h.Service.ResendChallengeOTP(c.Request().Context(), h.challengeToken(c), method)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, challengeResponse(info))
}

func (h *ChallengeHandler) challengeToken(c echo.Context) string {
	if cookie, err := c.Cookie(challengeCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return c.Request().Header.Get("X-Challenge-Token")
}

func (h *ChallengeHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func challengeResponse(info *service.ChallengeInfo) dto.ChallengeResponse {
	return dto.ChallengeResponse{
		Guard:        string(info.Guard),
		LoginPath:    info.LoginPath,
		Method:       string(info.Method),
		OTPExpiresAt: info.OTPExpiresAt,
	}
}
