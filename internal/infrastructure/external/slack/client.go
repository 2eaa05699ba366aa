package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// ErrSignatureInvalid is returned when a request was not signed by Slack
var ErrSignatureInvalid = errors.New("slack signature invalid")

// Client verifies inbound Slack requests and posts messages as an installed bot
type Client struct {
	signingSecret string
	httpClient    *http.Client
	apiURL        string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for Web API calls
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithAPIURL points Web API calls at another base URL (ending in "/")
func WithAPIURL(u string) Option {
	return func(cl *Client) { cl.apiURL = u }
}

// NewClient creates a Slack client
func NewClient(signingSecret string, opts ...Option) *Client {
	c := &Client{
		signingSecret: signingSecret,
		httpClient:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VerifyRequest checks the X-Slack-Signature of a request body
func (c *Client) VerifyRequest(header http.Header, body []byte) error {
	if c.signingSecret == "" {
		return ErrSignatureInvalid
	}

	sv, err := slack.NewSecretsVerifier(header, c.signingSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// ParseEvent decodes an Events API payload. Token checking is replaced by signature verification.
func (c *Client) ParseEvent(body []byte) (slackevents.EventsAPIEvent, error) {
	return slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
}

// PostMessage posts text to a channel (or thread when threadTS is set) with a bot token
func (c *Client) PostMessage(ctx context.Context, botToken, channelID, text, threadTS string) error {
	api := c.api(botToken)

	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	if _, _, err := api.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	return nil
}

func (c *Client) api(botToken string) *slack.Client {
	opts := []slack.Option{slack.OptionHTTPClient(c.httpClient)}
	if c.apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(c.apiURL))
	}
	return slack.New(botToken, opts...)
}
