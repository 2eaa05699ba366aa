package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims represents the access token claims issued by the identity provider.
// Subject carries the auth user ID.
type IdentityClaims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// FullName returns the display name the provider stored for the user, if any
func (c *IdentityClaims) FullName() string {
	for _, k := range []string{"full_name", "name"} {
		if v, ok := c.UserMetadata[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// StateClaims represents a signed OAuth state parameter
type StateClaims struct {
	Nonce          string    `json:"nonce"`
	Provider       string    `json:"provider"`
	ProfileID      uuid.UUID `json:"profile_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	jwt.RegisteredClaims
}
