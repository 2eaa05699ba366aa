package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// IntegrationRepository defines the interface for third-party connection data access
type IntegrationRepository interface {
	// UpsertSlackWorkspace inserts or updates a workspace keyed by team ID
	UpsertSlackWorkspace(ctx context.Context, ws *entities.SlackWorkspace) error

	// FindSlackWorkspace retrieves the active workspace of an organization
	FindSlackWorkspace(ctx context.Context, orgID uuid.UUID) (*entities.SlackWorkspace, error)

	// FindSlackWorkspaceByTeam retrieves a workspace by Slack team ID
	FindSlackWorkspaceByTeam(ctx context.Context, teamID string) (*entities.SlackWorkspace, error)

	// DeleteSlackWorkspace removes the organization's workspace
	DeleteSlackWorkspace(ctx context.Context, orgID uuid.UUID) error

	// UpsertCalendarConnection inserts or updates a connection keyed by (profile_id, provider)
	UpsertCalendarConnection(ctx context.Context, conn *entities.CalendarConnection) error

	// FindCalendarConnection retrieves a profile's connection for a provider
	FindCalendarConnection(ctx context.Context, profileID uuid.UUID, provider entities.Provider) (*entities.CalendarConnection, error)

	// UpdateCalendarTokens stores refreshed tokens
	UpdateCalendarTokens(ctx context.Context, id uuid.UUID, accessToken string, expiry *time.Time) error

	// DeleteCalendarConnection removes a profile's connection for a provider
	DeleteCalendarConnection(ctx context.Context, profileID uuid.UUID, provider entities.Provider) error

	// CreateState stores a pending OAuth handshake
	CreateState(ctx context.Context, state *entities.OAuthState) error

	// ConsumeState deletes and returns the state with the given nonce.
	// Returns gorm.ErrRecordNotFound when it does not exist or was already used.
	ConsumeState(ctx context.Context, nonce string) (*entities.OAuthState, error)

	// DeleteExpiredStates purges handshakes older than the given time
	DeleteExpiredStates(ctx context.Context, before time.Time) (int64, error)
}
