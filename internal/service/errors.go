package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// ErrChallengeExpired covers every dead-end of the challenge flow:
	// missing state, consumed state, missing principal or user. The caller
	// is sent back to the guard's login form, never shown a hard error.
	ErrChallengeExpired = errors.New("challenge expired")

	ErrInvalidCode        = errors.New("invalid code")
	ErrPhoneRequired      = errors.New("no phone number on file, use the email method instead")
	ErrVerificationFailed = errors.New("failed to verify code")

	ErrUserNotFound         = errors.New("user not found")
	ErrTwoFactorNotEnrolled = errors.New("two-factor authentication not enrolled")

	ErrPrincipalExists   = errors.New("role already assigned for this user")
	ErrPrincipalNotFound = errors.New("role assignment not found")
	ErrStoreRequired     = errors.New("store is required for this role")

	ErrStoreNotFound     = errors.New("store not found")
	ErrSlugTaken         = errors.New("store slug already in use")
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUTaken          = errors.New("sku already in use for this store")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order requires at least one item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
)
