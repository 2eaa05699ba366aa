package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
)

// ErrStateInvalid covers forged, expired, reused and mismatched state parameters
var ErrStateInvalid = errors.New("oauth state invalid")

// Store persists pending handshakes so each state can be used once
type Store interface {
	CreateState(ctx context.Context, state *entities.OAuthState) error
	ConsumeState(ctx context.Context, nonce string) (*entities.OAuthState, error)
}

// StateManager issues signed, single-use OAuth state parameters.
// The signed token proves origin; the stored row makes it one-time.
type StateManager struct {
	store      Store
	signer     *jwt.StateSigner
	expiration time.Duration
	now        func() time.Time
}

// NewStateManager creates a new state manager
func NewStateManager(store Store, signer *jwt.StateSigner, expiration time.Duration) *StateManager {
	if expiration <= 0 {
		expiration = 10 * time.Minute
	}
	return &StateManager{
		store:      store,
		signer:     signer,
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateState creates a state for a profile starting a provider handshake
func (sm *StateManager) GenerateState(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	nonce := hex.EncodeToString(b)

	token, err := sm.signer.Sign(jwt.StateClaims{
		Nonce:          nonce,
		Provider:       string(provider),
		ProfileID:      profileID,
		OrganizationID: orgID,
	}, sm.expiration)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}

	row := &entities.OAuthState{
		Nonce:          nonce,
		Provider:       provider,
		ProfileID:      profileID,
		OrganizationID: orgID,
		ExpiresAt:      sm.now().Add(sm.expiration),
	}
	if err := sm.store.CreateState(ctx, row); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	return token, nil
}

// ValidateState verifies and consumes a state returned to a provider callback
func (sm *StateManager) ValidateState(ctx context.Context, provider entities.Provider, state string) (*entities.OAuthState, error) {
	claims, err := sm.signer.Verify(state)
	if err != nil {
		return nil, ErrStateInvalid
	}
	if claims.Provider != string(provider) {
		return nil, ErrStateInvalid
	}

	// Delete immediately (one-time use)
	row, err := sm.store.ConsumeState(ctx, claims.Nonce)
	if err != nil {
		return nil, ErrStateInvalid
	}
	if row.IsExpired(sm.now()) || row.ProfileID != claims.ProfileID || row.Provider != provider {
		return nil, ErrStateInvalid
	}

	return row, nil
}
