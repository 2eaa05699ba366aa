package oauth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
)

type memStateStore struct {
	mu   sync.Mutex
	rows map[string]*entities.OAuthState
}

func (m *memStateStore) CreateState(_ context.Context, s *entities.OAuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]*entities.OAuthState{}
	}
	m.rows[s.Nonce] = s
	return nil
}

func (m *memStateStore) ConsumeState(_ context.Context, nonce string) (*entities.OAuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[nonce]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(m.rows, nonce)
	return s, nil
}

func TestStateManagerOneTimeUse(t *testing.T) {
	ctx := context.Background()
	store := &memStateStore{}
	sm := NewStateManager(store, jwt.NewStateSigner("secret"), time.Minute)

	profileID, orgID := uuid.New(), uuid.New()
	state, err := sm.GenerateState(ctx, entities.ProviderSlack, profileID, orgID)
	require.NoError(t, err)

	row, err := sm.ValidateState(ctx, entities.ProviderSlack, state)
	require.NoError(t, err)
	assert.Equal(t, profileID, row.ProfileID)
	assert.Equal(t, orgID, row.OrganizationID)

	_, err = sm.ValidateState(ctx, entities.ProviderSlack, state)
	assert.ErrorIs(t, err, ErrStateInvalid, "a consumed state cannot be replayed")
}

func TestStateManagerRejectsWrongProvider(t *testing.T) {
	ctx := context.Background()
	sm := NewStateManager(&memStateStore{}, jwt.NewStateSigner("secret"), time.Minute)

	state, err := sm.GenerateState(ctx, entities.ProviderGoogleCalendar, uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = sm.ValidateState(ctx, entities.ProviderSlack, state)
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestStateManagerRejectsForgedAndExpired(t *testing.T) {
	ctx := context.Background()
	store := &memStateStore{}
	sm := NewStateManager(store, jwt.NewStateSigner("secret"), time.Minute)

	forged := NewStateManager(store, jwt.NewStateSigner("attacker"), time.Minute)
	state, err := forged.GenerateState(ctx, entities.ProviderSlack, uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = sm.ValidateState(ctx, entities.ProviderSlack, state)
	assert.ErrorIs(t, err, ErrStateInvalid)

	state, err = sm.GenerateState(ctx, entities.ProviderSlack, uuid.New(), uuid.New())
	require.NoError(t, err)
	sm.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = sm.ValidateState(ctx, entities.ProviderSlack, state)
	assert.ErrorIs(t, err, ErrStateInvalid)
}

func TestSlackAuthURL(t *testing.T) {
	p := NewSlackProvider("cid", "secret", "https://api.example.com/api/integrations/slack/callback", nil)
	raw := p.GetAuthURL("st")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://slack.com/oauth/v2/authorize?"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "st", u.Query().Get("state"))
	assert.Equal(t, "app_mentions:read,chat:write,channels:read,im:history", u.Query().Get("scope"))
}
