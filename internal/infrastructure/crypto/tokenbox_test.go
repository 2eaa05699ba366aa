package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestTokenBoxSealOpen(t *testing.T) {
	box, err := NewTokenBox(testKey())
	require.NoError(t, err)

	sealed, err := box.Seal("xoxb-secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "xoxb-secret")

	again, err := box.Seal("xoxb-secret")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "xoxb-secret", plain)
}

func TestTokenBoxRejectsTampering(t *testing.T) {
	box, err := NewTokenBox(testKey())
	require.NoError(t, err)

	sealed, err := box.Seal("token")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, "v1:"))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := "v1:" + base64.StdEncoding.EncodeToString(raw)

	_, err = box.Open(tampered)
	assert.Error(t, err)

	_, err = box.Open("plain-text")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenBoxKeyValidation(t *testing.T) {
	_, err := NewTokenBox(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidKey)

	box, err := NewTokenBox("")
	require.NoError(t, err)
	assert.False(t, box.Configured())

	_, err = box.Seal("x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
