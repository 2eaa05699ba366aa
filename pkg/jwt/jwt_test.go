package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager("test-secret", "https://idp.example.com/auth/v1", "authenticated")
	sub := uuid.NewString()

	token, err := m.GenerateAccessToken(sub, "ada@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestManagerRejects(t *testing.T) {
	m := NewManager("test-secret", "", "authenticated")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", "", "authenticated")
		token, err := other.GenerateAccessToken("u1", "a@b.c", time.Hour)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := m.GenerateAccessToken("u1", "a@b.c", -time.Hour)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewManager("test-secret", "", "service_role")
		token, err := other.GenerateAccessToken("u1", "a@b.c", time.Hour)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := &IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestStateSigner(t *testing.T) {
	s := NewStateSigner("state-secret")
	in := StateClaims{
		Nonce:          "abc123",
		Provider:       "slack",
		ProfileID:      uuid.New(),
		OrganizationID: uuid.New(),
	}

	token, err := s.Sign(in, 10*time.Minute)
	require.NoError(t, err)

	out, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, in.Nonce, out.Nonce)
	assert.Equal(t, in.ProfileID, out.ProfileID)

	_, err = NewStateSigner("other").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := s.Sign(in, -time.Minute)
	require.NoError(t, err)
	_, err = s.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
