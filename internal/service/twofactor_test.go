package service

import (
	"context"
	"testing"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollTOTPDoesNotGateLogins(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")
	f.addPrincipal(user, entity.GuardStoreOwner, ptrUUID(uuid.New()))

	enrollment, err := f.service.EnrollTOTP(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.KeyURL, "otpauth://totp/")

	// An unconfirmed secret must not suspend logins.
	result, err := f.service.Login(context.Background(), LoginInput{
		Email:    "owner@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)
}

func TestConfirmTOTPEnablesGateAndIssuesRecoveryCodes(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")
	f.addPrincipal(user, entity.GuardStoreOwner, ptrUUID(uuid.New()))

	_, err := f.service.EnrollTOTP(context.Background(), user.ID)
	require.NoError(t, err)

	f.totp.valid = "123456"
	codes, err := f.service.ConfirmTOTP(context.Background(), user.ID, "123456")
	require.NoError(t, err)
	assert.Len(t, codes, 10)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.TwoFactorConfirmedAt)
	require.NotNil(t, stored.RecoveryCodes)

	decrypted, err := f.cipher.Decrypt(*stored.RecoveryCodes)
	require.NoError(t, err)
	assert.ElementsMatch(t, codes, decrypted)

	result, err := f.service.Login(context.Background(), LoginInput{
		Email:    "owner@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
}

func TestConfirmTOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")

	_, err := f.service.EnrollTOTP(context.Background(), user.ID)
	require.NoError(t, err)

	f.totp.valid = "123456"
	_, err = f.service.ConfirmTOTP(context.Background(), user.ID, "999999")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestConfirmTOTPWithoutEnrollment(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")

	_, err := f.service.ConfirmTOTP(context.Background(), user.ID, "123456")
	assert.ErrorIs(t, err, ErrTwoFactorNotEnrolled)
}

func TestDisableTwoFactorClearsEverything(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")
	f.addPrincipal(user, entity.GuardStoreOwner, ptrUUID(uuid.New()))

	_, err := f.service.EnrollTOTP(context.Background(), user.ID)
	require.NoError(t, err)
	f.totp.valid = "123456"
	_, err = f.service.ConfirmTOTP(context.Background(), user.ID, "123456")
	require.NoError(t, err)
	require.NoError(t, f.service.EnableEmailTwoFactor(context.Background(), user.ID))
	require.NoError(t, f.oneTimeCodes.Create(context.Background(), &entity.OneTimeCode{UserID: user.ID, Code: "111111"}))

	require.NoError(t, f.service.DisableTwoFactor(context.Background(), user.ID))

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TOTPSecret)
	assert.Nil(t, stored.TwoFactorConfirmedAt)
	assert.Nil(t, stored.RecoveryCodes)
	assert.False(t, stored.TwoFactorEmailEnabled)

	result, err := f.service.Login(context.Background(), LoginInput{
		Email:    "owner@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.False(t, result.TwoFactorRequired)
}

func TestRegenerateRecoveryCodesReplacesList(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")

	_, err := f.service.EnrollTOTP(context.Background(), user.ID)
	require.NoError(t, err)
	f.totp.valid = "123456"
	original, err := f.service.ConfirmTOTP(context.Background(), user.ID, "123456")
	require.NoError(t, err)

	regenerated, err := f.service.RegenerateRecoveryCodes(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, regenerated, 10)
	assert.NotEqual(t, original, regenerated)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	decrypted, err := f.cipher.Decrypt(*stored.RecoveryCodes)
	require.NoError(t, err)
	assert.ElementsMatch(t, regenerated, decrypted)
}

func TestRegenerateRecoveryCodesRequiresTwoFactor(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "owner@example.com", "secret-pass")

	_, err := f.service.RegenerateRecoveryCodes(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrTwoFactorNotEnrolled)
}
