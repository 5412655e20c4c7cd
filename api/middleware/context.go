package middleware

import (
	"storehub/internal/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextPrincipalKey   = "auth_principal_id"
	contextUserIDKey      = "auth_user_id"
	contextGuardKey       = "auth_guard"
	contextSessionKey     = "auth_session_id"
	contextStoreKey       = "auth_store_id"
	contextPermissionsKey = "auth_permissions"
)

type AuthContext struct {
	PrincipalID uuid.UUID
	UserID      uuid.UUID
	Guard       entity.Guard
	SessionID   uuid.UUID
	StoreID     *uuid.UUID
	Permissions []string
}

func SetAuthContext(c echo.Context, auth AuthContext) {
	c.Set(contextPrincipalKey, auth.PrincipalID)
	c.Set(contextUserIDKey, auth.UserID)
	c.Set(contextGuardKey, auth.Guard)
	c.Set(contextSessionKey, auth.SessionID)
	c.Set(contextStoreKey, auth.StoreID)
	c.Set(contextPermissionsKey, auth.Permissions)
}

func PrincipalIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value, ok := c.Get(contextPrincipalKey).(uuid.UUID)
	return value, ok
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value, ok := c.Get(contextUserIDKey).(uuid.UUID)
	return value, ok
}

func GuardFromContext(c echo.Context) (entity.Guard, bool) {
	value, ok := c.Get(contextGuardKey).(entity.Guard)
	return value, ok
}

func SessionIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value, ok := c.Get(contextSessionKey).(uuid.UUID)
	return value, ok
}

func StoreIDFromContext(c echo.Context) (*uuid.UUID, bool) {
	value, ok := c.Get(contextStoreKey).(*uuid.UUID)
	return value, ok
}

func PermissionsFromContext(c echo.Context) []string {
	value, _ := c.Get(contextPermissionsKey).([]string)
	return value
}
