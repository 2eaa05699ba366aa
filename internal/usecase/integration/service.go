package integration

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack/slackevents"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/oauth"
)

// Service defines the interface for third-party integrations
type Service interface {
	// AuthURL starts an OAuth handshake for provider on behalf of a profile
	AuthURL(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) (string, error)
	// CompleteSlack finishes a Slack install from the OAuth callback
	CompleteSlack(ctx context.Context, code, state string) (*entities.SlackWorkspace, error)
	// CompleteGoogle finishes a Google Calendar connection from the OAuth callback
	CompleteGoogle(ctx context.Context, code, state string) (*entities.CalendarConnection, error)
	// HandleSlackEvent verifies and processes an Events API delivery
	HandleSlackEvent(ctx context.Context, header http.Header, body []byte) (*EventResult, error)
	UpcomingEvents(ctx context.Context, profileID uuid.UUID) ([]gcal.Event, error)
	ListConnections(ctx context.Context, profileID, orgID uuid.UUID) ([]Connection, error)
	Disconnect(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) error
	// PurgeExpiredStates removes abandoned OAuth handshakes
	PurgeExpiredStates(ctx context.Context) (int64, error)
}

// Connection is the status of one provider for the caller
type Connection struct {
	Provider    entities.Provider `json:"provider"`
	Connected   bool              `json:"connected"`
	Account     string            `json:"account,omitempty"`
	ConnectedAt *time.Time        `json:"connected_at,omitempty"`
}

// EventResult is what the Slack webhook answers with
type EventResult struct {
	// Challenge is echoed back for url_verification requests
	Challenge string
	Handled   bool
}

// StateIssuer issues and consumes single-use OAuth state parameters
type StateIssuer interface {
	GenerateState(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) (string, error)
	ValidateState(ctx context.Context, provider entities.Provider, state string) (*entities.OAuthState, error)
}

// SlackInstaller performs the Slack OAuth v2 install
type SlackInstaller interface {
	Configured() bool
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth.SlackInstall, error)
}

// SlackBot verifies inbound requests and posts as the installed bot
type SlackBot interface {
	VerifyRequest(header http.Header, body []byte) error
	ParseEvent(body []byte) (slackevents.EventsAPIEvent, error)
	PostMessage(ctx context.Context, botToken, channelID, text, threadTS string) error
}

// GoogleAuthorizer performs the Google OAuth handshake and token refresh
type GoogleAuthorizer interface {
	Configured() bool
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	AccountEmail(ctx context.Context, token *oauth2.Token) (string, error)
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
}

// Calendar reads and writes events of a connected calendar
type Calendar interface {
	CreateEvent(ctx context.Context, ts oauth2.TokenSource, calendarID string, in gcal.NewEvent) (string, error)
	ListUpcoming(ctx context.Context, ts oauth2.TokenSource, calendarID string, from time.Time, max int64) ([]gcal.Event, error)
}

// Sealer encrypts tokens at rest
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
