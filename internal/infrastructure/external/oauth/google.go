package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// CalendarScopes are requested when a member connects Google Calendar
var CalendarScopes = []string{
	googleoauth.UserinfoEmailScope,
	calendar.CalendarEventsScope,
}

// CalendarAuthorizer runs the Google Calendar consent flow and hands out
// refreshing token sources for stored connections.
type CalendarAuthorizer struct {
	config *oauth2.Config
	opts   []option.ClientOption
}

// NewGoogleProvider builds a CalendarAuthorizer. Extra client options apply
// to the userinfo lookup only.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...option.ClientOption) *CalendarAuthorizer {
	return &CalendarAuthorizer{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       CalendarScopes,
			Endpoint:     google.Endpoint,
		},
		opts: opts,
	}
}

func (c *CalendarAuthorizer) Configured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// GetAuthURL forces the consent screen so Google always returns a refresh token
func (c *CalendarAuthorizer) GetAuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (c *CalendarAuthorizer) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// AccountEmail returns the address of the Google account that granted access
func (c *CalendarAuthorizer) AccountEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(c.config.TokenSource(ctx, token))}, c.opts...)
	svc, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get user info: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("google account has no email")
	}
	return info.Email, nil
}

// TokenSource refreshes the stored token on expiry
func (c *CalendarAuthorizer) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return c.config.TokenSource(ctx, token)
}
