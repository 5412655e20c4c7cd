package entity

import "errors"

// Guard identifies an authentication context with its own principal type
// and session namespace.
type Guard string

const (
	GuardAdmin      Guard = "admin"
	GuardStoreOwner Guard = "store_owner"
	GuardStoreStaff Guard = "store_staff"
)

var ErrUnknownGuard = errors.New("unknown guard")

// GuardResolutionOrder is the fixed priority used when a login request does
// not pin a guard: an admin account shadows a store-owner account with the
// same email, which in turn shadows a staff account.
func GuardResolutionOrder() []Guard {
	return []Guard{GuardAdmin, GuardStoreOwner, GuardStoreStaff}
}

func ParseGuard(value string) (Guard, error) {
	switch Guard(value) {
	case GuardAdmin, GuardStoreOwner, GuardStoreStaff:
		return Guard(value), nil
	}
	return "", ErrUnknownGuard
}

func (g Guard) Valid() bool {
	_, err := ParseGuard(string(g))
	return err == nil
}

func (g Guard) LoginPath() string {
	switch g {
	case GuardAdmin:
		return "/admin/login"
	case GuardStoreOwner:
		return "/store-owner/login"
	case GuardStoreStaff:
		return "/store-staff/login"
	}
	return "/auth/login"
}

func (g Guard) DashboardPath() string {
	switch g {
	case GuardAdmin:
		return "/admin/dashboard"
	case GuardStoreOwner:
		return "/store-owner/dashboard"
	case GuardStoreStaff:
		return "/store-staff/dashboard"
	}
	return "/"
}
