package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"golang.org/x/oauth2"
)

// Slack OAuth v2 endpoints
var slackEndpoint = oauth2.Endpoint{
	AuthURL:  "https://slack.com/oauth/v2/authorize",
	TokenURL: "https://slack.com/api/oauth.v2.access",
}

// SlackBotScopes are the bot token scopes requested on install
var SlackBotScopes = []string{"app_mentions:read", "chat:write", "channels:read", "im:history"}

// SlackInstall is the result of a completed Slack installation
type SlackInstall struct {
	TeamID      string
	TeamName    string
	BotUserID   string
	AccessToken string
	ChannelID   string
}

// SlackProvider handles the Slack OAuth v2 install handshake
type SlackProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewSlackProvider creates a new Slack OAuth provider
func NewSlackProvider(clientID, clientSecret, redirectURL string, httpClient *http.Client) *SlackProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SlackProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     slackEndpoint,
		},
		httpClient: httpClient,
	}
}

// Configured reports whether client credentials were supplied
func (s *SlackProvider) Configured() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// GetAuthURL returns the Slack install URL. Slack expects bot scopes comma separated.
func (s *SlackProvider) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("scope", strings.Join(SlackBotScopes, ",")),
	)
}

// ExchangeCode calls oauth.v2.access and returns the installed bot details
func (s *SlackProvider) ExchangeCode(ctx context.Context, code string) (*SlackInstall, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, s.httpClient, s.config.ClientID, s.config.ClientSecret, code, s.config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return &SlackInstall{
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		BotUserID:   resp.BotUserID,
		AccessToken: resp.AccessToken,
		ChannelID:   resp.IncomingWebhook.ChannelID,
	}, nil
}
