package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storehub/api/middleware"
	"storehub/internal/dto"
	"storehub/internal/entity"
	"storehub/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeFieldError(c echo.Context, field string, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, dto.FailErrors(
		"validation failed",
		map[string][]string{field: {err.Error()}},
	))
}

func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, entity.ErrUnknownGuard):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrChallengeExpired):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrInvalidCode):
		return writeFieldError(c, "code", err)
	case errors.Is(err, service.ErrPhoneRequired):
		return writeFieldError(c, "method", err)
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrStoreRequired):
		return c.JSON(http.StatusUnprocessableEntity, dto.Fail(err.Error()))
	case errors.Is(err, service.ErrPrincipalExists),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrSKUTaken):
		return c.JSON(http.StatusConflict, dto.Fail(err.Error()))
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPrincipalNotFound),
		errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrTwoFactorNotEnrolled):
		return c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, service.ErrVerificationFailed):
		return c.JSON(http.StatusInternalServerError, dto.Fail(err.Error()))
	}
	return writeError(c, http.StatusInternalServerError, err)
}

// respondError renders an error coming out of a helper: echo errors pass
// through untouched, everything else goes through the service mapping.
func respondError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return writeServiceError(c, err)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func parsePage(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// authorizeStore checks that the caller may act on the store in the path.
// Admins reach every store; owners and staff only their own.
func authorizeStore(c echo.Context, storeID uuid.UUID) error {
	guard, ok := middleware.GuardFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if guard == entity.GuardAdmin {
		return nil
	}
	ownStore, ok := middleware.StoreIDFromContext(c)
	if !ok || ownStore == nil || *ownStore != storeID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
