package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuard(t *testing.T) {
	for _, value := range []string{"admin", "store_owner", "store_staff"} {
		guard, err := ParseGuard(value)
		require.NoError(t, err)
		assert.Equal(t, Guard(value), guard)
		assert.True(t, guard.Valid())
	}

	_, err := ParseGuard("superuser")
	assert.ErrorIs(t, err, ErrUnknownGuard)
	assert.False(t, Guard("superuser").Valid())
}

func TestGuardResolutionOrder(t *testing.T) {
	assert.Equal(t, []Guard{GuardAdmin, GuardStoreOwner, GuardStoreStaff}, GuardResolutionOrder())
}

func TestGuardPaths(t *testing.T) {
	assert.Equal(t, "/admin/login", GuardAdmin.LoginPath())
	assert.Equal(t, "/store-owner/login", GuardStoreOwner.LoginPath())
	assert.Equal(t, "/store-staff/login", GuardStoreStaff.LoginPath())

	assert.Equal(t, "/admin/dashboard", GuardAdmin.DashboardPath())
	assert.Equal(t, "/store-owner/dashboard", GuardStoreOwner.DashboardPath())
	assert.Equal(t, "/store-staff/dashboard", GuardStoreStaff.DashboardPath())
}

func TestStaffPermissionList(t *testing.T) {
	staff := StoreStaff{Permissions: []byte(`["products.manage","orders.manage"]`)}
	principal := staff.Principal()

	assert.True(t, principal.HasPermission("products.manage"))
	assert.True(t, principal.HasPermission("orders.manage"))
	assert.False(t, principal.HasPermission("stores.manage"))

	empty := StoreStaff{}
	assert.Nil(t, empty.Principal().Permissions)
}
