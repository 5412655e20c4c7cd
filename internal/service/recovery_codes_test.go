package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryCodeCipherRoundTrip(t *testing.T) {
	cipher, err := NewRecoveryCodeCipher(testRecoveryKeyHex)
	require.NoError(t, err)

	codes := []string{"AAAAA-BBBBB", "CCCCC-DDDDD"}
	encrypted, err := cipher.Encrypt(codes)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "AAAAA")

	decrypted, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, codes, decrypted)
}

func TestRecoveryCodeCipherRejectsTampering(t *testing.T) {
	cipher, err := NewRecoveryCodeCipher(testRecoveryKeyHex)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt([]string{"AAAAA-BBBBB"})
	require.NoError(t, err)

	tampered := []byte(encrypted)
	tampered[len(tampered)-5] ^= 1
	_, err = cipher.Decrypt(string(tampered))
	assert.Error(t, err)
}

func TestRecoveryCodeCipherRejectsBadKey(t *testing.T) {
	_, err := NewRecoveryCodeCipher("deadbeef")
	assert.Error(t, err)

	_, err = NewRecoveryCodeCipher("not hex at all")
	assert.Error(t, err)
}

func TestGenerateRecoveryCodesFormat(t *testing.T) {
	codes, err := GenerateRecoveryCodes(10)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := make(map[string]struct{})
	for _, code := range codes {
		assert.Regexp(t, `^[A-Z2-9]{5}-[A-Z2-9]{5}$`, code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 10, "codes are unique")
}
