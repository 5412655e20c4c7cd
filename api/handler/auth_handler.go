package handler

import (
	"errors"
	"net/http"
	"time"

	"storehub/api/middleware"
	"storehub/internal/dto"
	"storehub/internal/entity"
	"storehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName   = "refresh_token"
	challengeCookieName = "challenge_token"
)

type AuthHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	CookieDomain  string
	SecureCookies bool
	SameSite      http.SameSite
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Validate:      validate,
		SecureCookies: true,
		SameSite:      http.SameSiteStrictMode,
	}
}

// Login resolves the guard from the email in fixed priority order.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, nil)
}

// LoginGuard returns a handler with the guard pinned, backing the
// /admin/login, /store-owner/login and /store-staff/login routes.
func (h *AuthHandler) LoginGuard(guard entity.Guard) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.login(c, &guard)
	}
}

func (h *AuthHandler) login(c echo.Context, guard *entity.Guard) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.LoginInput{
		Guard:     guard,
		Email:     req.Email,
		Password:  req.Password,
		Remember:  req.Remember,
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	}
	result, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	if result.TwoFactorRequired {
		h.setCookie(c, challengeCookieName, result.ChallengeToken, result.ChallengeExpiresIn)
		return c.JSON(http.StatusOK, dto.LoginResponse{
			Guard:              string(result.Guard),
			TwoFactorRequired:  true,
			ChallengeToken:     result.ChallengeToken,
			ChallengeExpiresIn: result.ChallengeExpiresIn,
		})
	}
	return h.writeSession(c, result)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.readCookie(c, refreshCookieName)
	if refreshToken == "" {
		return writeError(c, http.StatusUnauthorized, errors.New("missing refresh token"))
	}
	result, err := h.Service.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return h.writeSession(c, result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	userID, _ := middleware.UserIDFromContext(c)
	guard, _ := middleware.GuardFromContext(c)
	if err := h.Service.Logout(c.Request().Context(), sessionID, &userID, &guard, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	h.clearCookie(c, refreshCookieName)
	h.clearCookie(c, challengeCookieName)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) EnrollTOTP(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	enrollment, err := h.Service.EnrollTOTP(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TOTPEnrollResponse{
		Secret: enrollment.Secret,
		KeyURL: enrollment.KeyURL,
	})
}

func (h *AuthHandler) ConfirmTOTP(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.TOTPConfirmRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	codes, err := h.Service.ConfirmTOTP(c.Request().Context(), userID, req.Code)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RecoveryCodesResponse{RecoveryCodes: codes})
}

func (h *AuthHandler) EnableEmailTwoFactor(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	if err := h.Service.EnableEmailTwoFactor(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) DisableTwoFactor(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	if err := h.Service.DisableTwoFactor(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) RegenerateRecoveryCodes(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	codes, err := h.Service.RegenerateRecoveryCodes(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RecoveryCodesResponse{RecoveryCodes: codes})
}

// writeSession places the refresh token in an http-only cookie, clears any
// leftover challenge cookie and returns the access token.
func (h *AuthHandler) writeSession(c echo.Context, result *service.LoginResult) error {
	h.setCookie(c, refreshCookieName, result.RefreshToken, result.RefreshExpiresIn)
	h.clearCookie(c, challengeCookieName)
	return c.JSON(http.StatusOK, dto.LoginResponse{
		Guard:         string(result.Guard),
		DashboardPath: result.DashboardPath,
		AccessToken:   result.AccessToken,
		ExpiresIn:     result.ExpiresIn,
	})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *AuthHandler) setCookie(c echo.Context, name string, value string, expiresIn int64) {
	if value == "" {
		return
	}
	maxAge := int(expiresIn)
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(expiresIn) * time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
