package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const sealedPrefix = "v1:"

var (
	ErrInvalidKey    = errors.New("encryption key must be 32 bytes")
	ErrMalformed     = errors.New("malformed sealed token")
	ErrNotConfigured = errors.New("token encryption key not configured")
)

// TokenBox encrypts integration tokens at rest with AES-256-GCM.
// Sealed values look like "v1:" + base64(nonce || ciphertext).
type TokenBox struct {
	aead cipher.AEAD
}

// NewTokenBox builds a TokenBox from a base64-encoded 32 byte key.
// An empty key yields a box whose Seal and Open fail with ErrNotConfigured.
func NewTokenBox(encodedKey string) (*TokenBox, error) {
	if encodedKey == "" {
		return &TokenBox{}, nil
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return &TokenBox{aead: aead}, nil
}

// Configured reports whether a key was supplied
func (b *TokenBox) Configured() bool {
	return b != nil && b.aead != nil
}

// Seal encrypts plaintext
func (b *TokenBox) Seal(plaintext string) (string, error) {
	if !b.Configured() {
		return "", ErrNotConfigured
	}

	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal
func (b *TokenBox) Open(sealed string) (string, error) {
	if !b.Configured() {
		return "", ErrNotConfigured
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", ErrMalformed
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", ErrMalformed
	}

	ns := b.aead.NonceSize()
	if len(raw) < ns+b.aead.Overhead() {
		return "", ErrMalformed
	}

	plain, err := b.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return string(plain), nil
}
