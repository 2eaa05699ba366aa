package integration

import (
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	integrationUsecase "github.com/johnquangdev/l10-platform/internal/usecase/integration"
)

// AuthURLResponse is returned when the client asks for the URL instead of a redirect
type AuthURLResponse struct {
	URL string `json:"url"`
}

// ConnectionsResponse lists the caller's integrations
type ConnectionsResponse struct {
	Integrations []integrationUsecase.Connection `json:"integrations"`
}

// EventsResponse lists upcoming calendar events
type EventsResponse struct {
	Events []gcal.Event `json:"events"`
}

// ChallengeResponse answers Slack's url_verification
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}
