package integration

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/cache"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/oauth"
	slackclient "github.com/johnquangdev/l10-platform/internal/infrastructure/external/slack"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
)

type fakeIntegrations struct {
	repositories.IntegrationRepository

	mu         sync.Mutex
	states     map[string]*entities.OAuthState
	workspaces map[uuid.UUID]*entities.SlackWorkspace
	calendars  map[uuid.UUID]*entities.CalendarConnection
	savedToken string
}

func newFakeIntegrations() *fakeIntegrations {
	return &fakeIntegrations{
		states:     map[string]*entities.OAuthState{},
		workspaces: map[uuid.UUID]*entities.SlackWorkspace{},
		calendars:  map[uuid.UUID]*entities.CalendarConnection{},
	}
}

func (f *fakeIntegrations) CreateState(_ context.Context, s *entities.OAuthState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[s.Nonce] = s
	return nil
}

func (f *fakeIntegrations) ConsumeState(_ context.Context, nonce string) (*entities.OAuthState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[nonce]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(f.states, nonce)
	return s, nil
}

func (f *fakeIntegrations) UpsertSlackWorkspace(_ context.Context, ws *entities.SlackWorkspace) error {
	f.workspaces[ws.OrganizationID] = ws
	return nil
}

func (f *fakeIntegrations) FindSlackWorkspace(_ context.Context, orgID uuid.UUID) (*entities.SlackWorkspace, error) {
	ws, ok := f.workspaces[orgID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ws, nil
}

func (f *fakeIntegrations) FindSlackWorkspaceByTeam(_ context.Context, teamID string) (*entities.SlackWorkspace, error) {
	for _, ws := range f.workspaces {
		if ws.TeamID == teamID {
			return ws, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeIntegrations) DeleteSlackWorkspace(_ context.Context, orgID uuid.UUID) error {
	if _, ok := f.workspaces[orgID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.workspaces, orgID)
	return nil
}

func (f *fakeIntegrations) UpsertCalendarConnection(_ context.Context, c *entities.CalendarConnection) error {
	f.calendars[c.ProfileID] = c
	return nil
}

func (f *fakeIntegrations) FindCalendarConnection(_ context.Context, profileID uuid.UUID, _ entities.Provider) (*entities.CalendarConnection, error) {
	c, ok := f.calendars[profileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeIntegrations) UpdateCalendarTokens(_ context.Context, _ uuid.UUID, token string, _ *time.Time) error {
	f.savedToken = token
	return nil
}

type fakeRocks struct{ repositories.RockRepository }

func (fakeRocks) ListActive(context.Context, uuid.UUID) ([]*entities.Rock, error) {
	return []*entities.Rock{
		{Title: "Launch EU region", Status: entities.RockStatusAtRisk, Owner: &entities.Profile{FullName: "Ada"}},
		{Title: "Hire CFO", Status: entities.RockStatusOnTrack},
	}, nil
}

type fakeMetrics struct{ repositories.MetricRepository }

func (fakeMetrics) ListActive(context.Context, uuid.UUID) ([]*entities.Metric, error) {
	goal := 50.0
	return []*entities.Metric{{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Demos", Goal: &goal}}, nil
}

func (fakeMetrics) LatestValues(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.MetricValue, error) {
	return map[uuid.UUID]*entities.MetricValue{ids[0]: {Value: 32}}, nil
}

type fakeInstaller struct {
	configured bool
	err        error
}

func (f fakeInstaller) Configured() bool { return f.configured }

func (fakeInstaller) GetAuthURL(state string) string {
	return "https://slack.test/authorize?state=" + url.QueryEscape(state)
}

func (f fakeInstaller) ExchangeCode(context.Context, string) (*oauth.SlackInstall, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &oauth.SlackInstall{TeamID: "T1", TeamName: "Acme", BotUserID: "B1", AccessToken: "xoxb-1", ChannelID: "C-general"}, nil
}

type post struct {
	token, channel, text, thread string
}

type fakeBot struct {
	parser   *slackclient.Client
	valid    bool
	posts    []post
	failures int
}

func (f *fakeBot) VerifyRequest(http.Header, []byte) error {
	if !f.valid {
		return slackclient.ErrSignatureInvalid
	}
	return nil
}

func (f *fakeBot) ParseEvent(body []byte) (slackevents.EventsAPIEvent, error) {
	return f.parser.ParseEvent(body)
}

func (f *fakeBot) PostMessage(_ context.Context, token, channel, text, thread string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("slack 503")
	}
	f.posts = append(f.posts, post{token, channel, text, thread})
	return nil
}

type fakeGoogle struct {
	refreshed string
}

func (fakeGoogle) Configured() bool { return true }

func (fakeGoogle) GetAuthURL(state string) string {
	return "https://accounts.google.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (fakeGoogle) ExchangeCode(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "ya29.a", RefreshToken: "1//r", Expiry: time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)}, nil
}

func (fakeGoogle) AccountEmail(context.Context, *oauth2.Token) (string, error) {
	return "ada@acme.test", nil
}

func (f fakeGoogle) TokenSource(_ context.Context, t *oauth2.Token) oauth2.TokenSource {
	if f.refreshed != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: f.refreshed})
	}
	return oauth2.StaticTokenSource(t)
}

type fakeCalendar struct {
	created []gcal.NewEvent
	tokens  []string
}

func (f *fakeCalendar) CreateEvent(_ context.Context, ts oauth2.TokenSource, _ string, in gcal.NewEvent) (string, error) {
	t, err := ts.Token()
	if err != nil {
		return "", err
	}
	f.tokens = append(f.tokens, t.AccessToken)
	f.created = append(f.created, in)
	return "evt-1", nil
}

func (f *fakeCalendar) ListUpcoming(_ context.Context, ts oauth2.TokenSource, _ string, from time.Time, _ int64) ([]gcal.Event, error) {
	t, err := ts.Token()
	if err != nil {
		return nil, err
	}
	f.tokens = append(f.tokens, t.AccessToken)
	return []gcal.Event{{ID: "e1", Summary: "1:1", Start: from.Add(time.Hour)}}, nil
}

// plainSealer marks values instead of encrypting them
type plainSealer struct{}

func (plainSealer) Seal(s string) (string, error) { return "sealed:" + s, nil }

func (plainSealer) Open(s string) (string, error) {
	if !strings.HasPrefix(s, "sealed:") {
		return "", errors.New("not sealed")
	}
	return strings.TrimPrefix(s, "sealed:"), nil
}

type fixture struct {
	orgID     uuid.UUID
	profileID uuid.UUID
	repo      *fakeIntegrations
	bot       *fakeBot
	google    *fakeGoogle
	calendar  *fakeCalendar
	providers Providers
	store     *cache.MemoryStore
	svc       *IntegrationService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		orgID:     uuid.New(),
		profileID: uuid.New(),
		repo:      newFakeIntegrations(),
		bot:       &fakeBot{parser: slackclient.NewClient("unused"), valid: true},
		google:    &fakeGoogle{},
		calendar:  &fakeCalendar{},
		store:     cache.NewMemoryStore(time.Minute),
	}
	t.Cleanup(func() { _ = f.store.Close() })

	f.providers = Providers{
		States:   oauth.NewStateManager(f.repo, jwt.NewStateSigner("state-secret"), time.Minute),
		Slack:    fakeInstaller{configured: true},
		Bot:      f.bot,
		Google:   f.google,
		Calendar: f.calendar,
		Tokens:   plainSealer{},
	}
	f.build()
	return f
}

func (f *fixture) build() {
	f.svc = NewIntegrationService(Repositories{
		Integrations: f.repo,
		Rocks:        fakeRocks{},
		Metrics:      fakeMetrics{},
	}, f.providers, f.store, zap.NewNop())
}

func stateOf(t *testing.T, authURL string) string {
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func (f *fixture) connectSlack(t *testing.T) *entities.SlackWorkspace {
	authURL, err := f.svc.AuthURL(context.Background(), entities.ProviderSlack, f.profileID, f.orgID)
	require.NoError(t, err)
	ws, err := f.svc.CompleteSlack(context.Background(), "code", stateOf(t, authURL))
	require.NoError(t, err)
	return ws
}

func TestAuthURL_Errors(t *testing.T) {
	f := newFixture(t)
	f.providers.Slack = fakeInstaller{configured: false}
	f.build()

	_, err := f.svc.AuthURL(context.Background(), entities.ProviderSlack, f.profileID, f.orgID)
	assert.ErrorIs(t, err, usecaseErrors.ErrProviderNotConfigured)

	_, err = f.svc.AuthURL(context.Background(), "zoom", f.profileID, f.orgID)
	assert.ErrorIs(t, err, usecaseErrors.ErrUnsupportedProvider)
	assert.Empty(t, f.repo.states)
}

func TestCompleteSlack(t *testing.T) {
	f := newFixture(t)

	authURL, err := f.svc.AuthURL(context.Background(), entities.ProviderSlack, f.profileID, f.orgID)
	require.NoError(t, err)
	state := stateOf(t, authURL)

	ws, err := f.svc.CompleteSlack(context.Background(), "code", state)
	require.NoError(t, err)
	assert.Equal(t, f.orgID, ws.OrganizationID)
	assert.Equal(t, "sealed:xoxb-1", ws.BotToken)
	assert.Equal(t, "C-general", *ws.DefaultChannelID)
	assert.Equal(t, f.profileID, *ws.InstalledBy)

	_, err = f.svc.CompleteSlack(context.Background(), "code", state)
	assert.ErrorIs(t, err, usecaseErrors.ErrOAuthStateInvalid, "a state is single use")
}

func TestCompleteSlack_ExchangeFailure(t *testing.T) {
	f := newFixture(t)
	f.providers.Slack = fakeInstaller{configured: true, err: errors.New("invalid_code")}
	f.build()

	authURL, err := f.svc.AuthURL(context.Background(), entities.ProviderSlack, f.profileID, f.orgID)
	require.NoError(t, err)

	_, err = f.svc.CompleteSlack(context.Background(), "bad", stateOf(t, authURL))
	assert.ErrorIs(t, err, usecaseErrors.ErrOAuthExchangeFailed)
	assert.Empty(t, f.repo.workspaces)
}

func TestCompleteGoogle_WrongProviderState(t *testing.T) {
	f := newFixture(t)

	authURL, err := f.svc.AuthURL(context.Background(), entities.ProviderSlack, f.profileID, f.orgID)
	require.NoError(t, err)

	_, err = f.svc.CompleteGoogle(context.Background(), "code", stateOf(t, authURL))
	assert.ErrorIs(t, err, usecaseErrors.ErrOAuthStateInvalid)
}

func TestHandleSlackEvent_Verification(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, []byte(`{"type":"url_verification","challenge":"3eZbrw1a"}`))
	require.NoError(t, err)
	assert.Equal(t, "3eZbrw1a", res.Challenge)

	f.bot.valid = false
	_, err = f.svc.HandleSlackEvent(context.Background(), http.Header{}, []byte(`{}`))
	assert.ErrorIs(t, err, usecaseErrors.ErrSignatureInvalid)
}

func mentionBody(eventID, text string) []byte {
	return []byte(`{
		"type": "event_callback",
		"team_id": "T1",
		"event_id": "` + eventID + `",
		"event": {"type": "app_mention", "user": "U1", "text": "` + text + `", "channel": "C9", "ts": "1700000000.0001"}
	}`)
}

func TestHandleSlackEvent_RepliesOnce(t *testing.T) {
	f := newFixture(t)
	f.connectSlack(t)

	for range 2 {
		res, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev1", "<@B1> rocks please"))
		require.NoError(t, err)
		assert.True(t, res.Handled)
	}

	require.Len(t, f.bot.posts, 1)
	got := f.bot.posts[0]
	assert.Equal(t, "xoxb-1", got.token)
	assert.Equal(t, "C9", got.channel)
	assert.Equal(t, "1700000000.0001", got.thread)
	assert.Equal(t, "*Rocks*\n• Launch EU region: at risk (Ada)\n• Hire CFO: on track (Unassigned)", got.text)
}

func TestHandleSlackEvent_FailedReplyIsRetried(t *testing.T) {
	f := newFixture(t)
	f.connectSlack(t)
	f.bot.failures = 1

	_, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev9", "<@B1> help"))
	require.Error(t, err)
	assert.Empty(t, f.bot.posts)

	res, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev9", "<@B1> help"))
	require.NoError(t, err)
	assert.True(t, res.Handled)
	require.Len(t, f.bot.posts, 1)
	assert.Equal(t, helpText, f.bot.posts[0].text)

	_, err = f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev9", "<@B1> help"))
	require.NoError(t, err)
	assert.Len(t, f.bot.posts, 1)
}

func TestHandleSlackEvent_KeywordRouting(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "<@B1> scorecard", want: "*Scorecard*\n• Demos: 32 :warning: below goal of 50"},
		{text: "<@B1> HELP", want: helpText},
		{text: "<@B1> hello", want: "Hi! I'm the L10 assistant for Acme.\n" + helpText},
	}
	for i, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := newFixture(t)
			f.connectSlack(t)

			_, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev"+string(rune('a'+i)), tt.text))
			require.NoError(t, err)
			require.Len(t, f.bot.posts, 1)
			assert.Equal(t, tt.want, f.bot.posts[0].text)
		})
	}
}

func TestHandleSlackEvent_UnknownTeamIsIgnored(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.HandleSlackEvent(context.Background(), http.Header{}, mentionBody("Ev2", "rocks"))
	require.NoError(t, err)
	assert.True(t, res.Handled)
	assert.Empty(t, f.bot.posts)
}

func TestGoogleCalendarFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpcomingEvents(ctx, f.profileID)
	require.ErrorIs(t, err, usecaseErrors.ErrIntegrationNotConnected)

	authURL, err := f.svc.AuthURL(ctx, entities.ProviderGoogleCalendar, f.profileID, f.orgID)
	require.NoError(t, err)
	conn, err := f.svc.CompleteGoogle(ctx, "code", stateOf(t, authURL))
	require.NoError(t, err)
	assert.Equal(t, "ada@acme.test", conn.Email)
	assert.Equal(t, "sealed:ya29.a", conn.AccessToken)
	assert.Equal(t, "sealed:1//r", *conn.RefreshToken)
	assert.Equal(t, "primary", conn.CalendarID)

	events, err := f.svc.UpcomingEvents(ctx, f.profileID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, []string{"ya29.a"}, f.calendar.tokens)
	assert.Empty(t, f.repo.savedToken, "an unchanged token is not written back")
}

func TestPublishMeeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := &entities.L10Meeting{
		ID:          uuid.New(),
		Title:       "Weekly L10",
		ScheduledAt: time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC),
		CreatedBy:   f.profileID,
	}
	attendees := []*entities.Profile{
		{ID: f.profileID, Email: "ada@acme.test"},
		{ID: uuid.New(), Email: "bob@acme.test"},
	}

	id, err := f.svc.PublishMeeting(ctx, m, attendees)
	require.NoError(t, err)
	assert.Empty(t, id, "nothing to publish without a connected calendar")

	f.repo.calendars[f.profileID] = &entities.CalendarConnection{
		ID:          uuid.New(),
		ProfileID:   f.profileID,
		AccessToken: "sealed:old",
		CalendarID:  "primary",
	}
	f.google.refreshed = "new"

	id, err = f.svc.PublishMeeting(ctx, m, attendees)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
	require.Len(t, f.calendar.created, 1)
	assert.Equal(t, []string{"bob@acme.test"}, f.calendar.created[0].Attendees)
	assert.Equal(t, 90*time.Minute, f.calendar.created[0].Duration)
	assert.Equal(t, "sealed:new", f.repo.savedToken)
}

func TestAnnounceMeetingCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	duration := 62
	m := &entities.L10Meeting{
		OrganizationID:  f.orgID,
		Title:           "Weekly L10",
		DurationMinutes: &duration,
		Ratings:         datatypes.NewJSONType(entities.Ratings{"a": 9, "b": 8}),
	}

	require.NoError(t, f.svc.AnnounceMeetingCompleted(ctx, m))
	assert.Empty(t, f.bot.posts, "no workspace connected")

	f.connectSlack(t)
	require.NoError(t, f.svc.AnnounceMeetingCompleted(ctx, m))
	require.Len(t, f.bot.posts, 1)
	assert.Equal(t, "C-general", f.bot.posts[0].channel)
	assert.Equal(t, ":white_check_mark: *Weekly L10* is complete (62 min).\nTeam Average: 8.5/10", f.bot.posts[0].text)
}

func TestListConnectionsAndDisconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.connectSlack(t)

	conns, err := f.svc.ListConnections(ctx, f.profileID, f.orgID)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.True(t, conns[0].Connected)
	assert.Equal(t, "Acme", conns[0].Account)
	assert.False(t, conns[1].Connected)

	require.NoError(t, f.svc.Disconnect(ctx, entities.ProviderSlack, f.profileID, f.orgID))
	err = f.svc.Disconnect(ctx, entities.ProviderSlack, f.profileID, f.orgID)
	assert.ErrorIs(t, err, usecaseErrors.ErrIntegrationNotConnected)
	err = f.svc.Disconnect(ctx, "zoom", f.profileID, f.orgID)
	assert.ErrorIs(t, err, usecaseErrors.ErrUnsupportedProvider)
}
