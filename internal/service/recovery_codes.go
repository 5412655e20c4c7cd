package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const recoveryCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RecoveryCodeCipher encrypts the recovery-code list stored on a user row
// with AES-256-GCM. The payload is base64(nonce + ciphertext + tag).
type RecoveryCodeCipher struct {
	key []byte
}

func NewRecoveryCodeCipher(keyHex string) (*RecoveryCodeCipher, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode recovery code key: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("recovery code key must be 32 bytes")
	}
	return &RecoveryCodeCipher{key: key}, nil
}

func (c *RecoveryCodeCipher) Encrypt(codes []string) (string, error) {
	plaintext, err := json.Marshal(codes)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *RecoveryCodeCipher) Decrypt(payload string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode recovery code payload: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return nil, errors.New("recovery code payload too short")
	}
	plaintext, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt recovery codes: %w", err)
	}

	var codes []string
	if err := json.Unmarshal(plaintext, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// GenerateRecoveryCodes returns n codes of the form XXXXX-XXXXX drawn from
// an unambiguous alphabet.
func GenerateRecoveryCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code, err := randomRecoveryCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func randomRecoveryCode() (string, error) {
	buffer := make([]byte, 10)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	var builder strings.Builder
	for i, b := range buffer {
		if i == 5 {
			builder.WriteByte('-')
		}
		builder.WriteByte(recoveryCodeAlphabet[int(b)%len(recoveryCodeAlphabet)])
	}
	return builder.String(), nil
}
