package service

import (
	"context"
	"testing"
	"time"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// beginEmailChallenge logs a 2FA-gated user in and hands back the pending
// challenge token.
func beginEmailChallenge(t *testing.T, f *authFixture, phone *string) (*entity.User, string) {
	t.Helper()
	user := f.addUser(t, "secure@example.com", "secret-pass")
	user.TwoFactorEmailEnabled = true
	user.Phone = phone
	require.NoError(t, f.users.Update(context.Background(), user))
	f.addPrincipal(user, entity.GuardStoreOwner, ptrUUID(uuid.New()))

	result, err := f.service.Login(context.Background(), LoginInput{
		Email:    "secure@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	require.True(t, result.TwoFactorRequired)
	return user, result.ChallengeToken
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}

// challengeState peeks at the server-side state behind a challenge token.
func (f *authFixture) challengeState(t *testing.T, token string) (string, *ChallengeState) {
	t.Helper()
	issuer := ChallengeTokenIssuerJWT{Secret: []byte("test-challenge-secret")}
	id, _, err := issuer.Parse(token)
	require.NoError(t, err)
	state, err := f.challenges.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, state)
	return id, state
}

func waitForEmails(t *testing.T, f *authFixture, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.email.count() == n
	}, time.Second, 10*time.Millisecond)
}

func TestDescribeChallengeIssuesEmailOTP(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	info, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)

	assert.Equal(t, entity.GuardStoreOwner, info.Guard)
	assert.Equal(t, "/store-owner/login", info.LoginPath)
	assert.Equal(t, OTPDeliveryEmail, info.Method)

	_, state := f.challengeState(t, token)
	assert.Len(t, state.OTPCode, 6)
	assert.True(t, state.OTPValid(f.clock.Now()))

	waitForEmails(t, f, 1)
	assert.Equal(t, state.OTPCode, f.email.sent[0].Code)
}

func TestDescribeChallengeReusesPendingCode(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, first := f.challengeState(t, token)
	waitForEmails(t, f, 1)

	_, err = f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, second := f.challengeState(t, token)

	assert.Equal(t, first.OTPCode, second.OTPCode)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, f.email.count(), "a still-valid code is not re-sent")
}

func TestResendForcesNewCode(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, first := f.challengeState(t, token)
	waitForEmails(t, f, 1)

	_, err = f.service.ResendChallengeOTP(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, second := f.challengeState(t, token)

	assert.NotEqual(t, first.OTPCode, second.OTPCode)
	waitForEmails(t, f, 2)
}

func TestExpiredCodeIsRegenerated(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, first := f.challengeState(t, token)
	waitForEmails(t, f, 1)

	f.clock.Advance(6 * time.Minute) // past the 5 minute OTP TTL

	_, err = f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, second := f.challengeState(t, token)

	assert.NotEqual(t, first.OTPExpiresAt, second.OTPExpiresAt)
	waitForEmails(t, f, 2)
}

func TestSMSDeliveryRequiresPhone(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliverySMS)
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestSMSDelivery(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+15550100"
	_, token := beginEmailChallenge(t, f, &phone)

	info, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliverySMS)
	require.NoError(t, err)

	assert.Equal(t, OTPDeliverySMS, info.Method)
	require.Equal(t, 1, f.sms.count())
	assert.Equal(t, phone, f.sms.sent[0].To)
}

func TestSMSFailureFallsBackToEmail(t *testing.T) {
	f := newAuthFixture(t)
	phone := "+15550100"
	_, token := beginEmailChallenge(t, f, &phone)
	f.sms.failed = true

	info, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliverySMS)
	require.NoError(t, err, "a broken SMS gateway never blocks the flow")

	assert.Equal(t, OTPDeliveryEmail, info.Method)
	waitForEmails(t, f, 1)
	assert.Contains(t, f.logs.actions(), entity.OTPFallback)
}

func TestVerifyChallengeCodeEstablishesSession(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, state := f.challengeState(t, token)

	result, err := f.service.VerifyChallengeCode(context.Background(), token, state.OTPCode, nil, nil)
	require.NoError(t, err)

	assert.False(t, result.TwoFactorRequired)
	assert.Equal(t, entity.GuardStoreOwner, result.Guard)
	assert.NotEmpty(t, result.AccessToken)
	require.Len(t, f.sessions.active(), 1)
	assert.Contains(t, f.logs.actions(), entity.ChallengePassed)
}

func TestVerifyConsumesChallenge(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, state := f.challengeState(t, token)

	_, err = f.service.VerifyChallengeCode(context.Background(), token, state.OTPCode, nil, nil)
	require.NoError(t, err)

	// Replaying the same token finds no pending state.
	_, err = f.service.VerifyChallengeCode(context.Background(), token, state.OTPCode, nil, nil)
	assert.ErrorIs(t, err, ErrChallengeExpired)
	assert.Len(t, f.sessions.active(), 1, "no second session from a consumed challenge")
}

func TestVerifyWrongCodeKeepsChallengeAlive(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, state := f.challengeState(t, token)

	_, err = f.service.VerifyChallengeCode(context.Background(), token, "000000", nil, nil)
	if state.OTPCode == "000000" {
		t.Skip("random code collided with the wrong-code probe")
	}
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Contains(t, f.logs.actions(), entity.ChallengeFailed)

	// The real code still works afterwards.
	_, err = f.service.VerifyChallengeCode(context.Background(), token, state.OTPCode, nil, nil)
	assert.NoError(t, err)
}

func TestVerifyExpiredOTPFails(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	require.NoError(t, err)
	_, state := f.challengeState(t, token)

	f.clock.Advance(6 * time.Minute)

	_, err = f.service.VerifyChallengeCode(context.Background(), token, state.OTPCode, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyExpiredChallengeFails(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	f.clock.Advance(31 * time.Minute) // past the 30 minute challenge TTL

	_, err := f.service.DescribeChallenge(context.Background(), token, OTPDeliveryEmail)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestVerifyGarbageTokenFails(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.VerifyChallengeCode(context.Background(), "not-a-token", "123456", nil, nil)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestVerifyTOTPCode(t *testing.T) {
	f := newAuthFixture(t)
	user, token := beginEmailChallenge(t, f, nil)

	secret := "FAKESECRET"
	confirmed := f.clock.Now()
	user.TOTPSecret = &secret
	user.TwoFactorConfirmedAt = &confirmed
	require.NoError(t, f.users.Update(context.Background(), user))
	f.totp.valid = "654321"

	result, err := f.service.VerifyChallengeCode(context.Background(), token, "654321", nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestVerifyPersistedOneTimeCode(t *testing.T) {
	f := newAuthFixture(t)
	user, token := beginEmailChallenge(t, f, nil)

	row := &entity.OneTimeCode{
		UserID:    user.ID,
		Code:      "987654",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, f.oneTimeCodes.Create(context.Background(), row))

	_, err := f.service.VerifyChallengeCode(context.Background(), token, "987654", nil, nil)
	require.NoError(t, err)

	// The row is single use.
	remaining, err := f.oneTimeCodes.FindValid(context.Background(), user.ID, "987654")
	require.NoError(t, err)
	assert.Nil(t, remaining)
}

func TestVerifyRecoveryCodeIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	user, token := beginEmailChallenge(t, f, nil)

	codes := []string{"AAAAA-BBBBB", "CCCCC-DDDDD", "EEEEE-FFFFF"}
	encrypted, err := f.cipher.Encrypt(codes)
	require.NoError(t, err)
	user.RecoveryCodes = &encrypted
	require.NoError(t, f.users.Update(context.Background(), user))

	result, err := f.service.VerifyRecoveryCode(context.Background(), token, "ccccc-ddddd", nil, nil)
	require.NoError(t, err, "codes match case-insensitively")
	assert.NotEmpty(t, result.AccessToken)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	remaining, err := f.cipher.Decrypt(*stored.RecoveryCodes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAAA-BBBBB", "EEEEE-FFFFF"}, remaining)

	// A second login with the burnt code fails; an unused one still works.
	require.NoError(t, f.service.Logout(context.Background(), f.sessions.active()[0].ID, &user.ID, nil, nil))
	login, err := f.service.Login(context.Background(), LoginInput{Email: "secure@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = f.service.VerifyRecoveryCode(context.Background(), login.ChallengeToken, "CCCCC-DDDDD", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.service.VerifyRecoveryCode(context.Background(), login.ChallengeToken, "AAAAA-BBBBB", nil, nil)
	assert.NoError(t, err)
}

func TestVerifyRecoveryCodeWithoutCodesFails(t *testing.T) {
	f := newAuthFixture(t)
	_, token := beginEmailChallenge(t, f, nil)

	_, err := f.service.VerifyRecoveryCode(context.Background(), token, "AAAAA-BBBBB", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyRecoveryCodeCorruptPayload(t *testing.T) {
	f := newAuthFixture(t)
	user, token := beginEmailChallenge(t, f, nil)

	corrupt := "bm90LWEtcmVhbC1wYXlsb2Fk"
	user.RecoveryCodes = &corrupt
	require.NoError(t, f.users.Update(context.Background(), user))

	_, err := f.service.VerifyRecoveryCode(context.Background(), token, "AAAAA-BBBBB", nil, nil)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}
