package briefing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

type fakeBriefings struct {
	mu   sync.Mutex
	rows map[string]*entities.Briefing
}

func key(profileID uuid.UUID, date time.Time) string {
	return profileID.String() + date.Format("2006-01-02")
}

func (f *fakeBriefings) FindByProfileAndDate(_ context.Context, profileID uuid.UUID, date time.Time) (*entities.Briefing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[key(profileID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeBriefings) Upsert(_ context.Context, b *entities.Briefing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key(b.ProfileID, b.Date)] = b
	return nil
}

type fakeInsights struct {
	alerts []*entities.Alert
	err    error
}

func (f *fakeInsights) ListUnacknowledgedAlerts(context.Context, uuid.UUID, uuid.UUID) ([]*entities.Alert, error) {
	return f.alerts, f.err
}

func (f *fakeInsights) ListUnresolvedAnomalies(context.Context, uuid.UUID) ([]*entities.Anomaly, error) {
	return nil, nil
}

func (f *fakeInsights) ListUnreadMentions(context.Context, uuid.UUID) ([]*entities.Mention, error) {
	return nil, nil
}

func (f *fakeInsights) FindVTO(context.Context, uuid.UUID) (*entities.VTO, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeProfiles struct {
	repositories.ProfileRepository
	onboarded []*entities.Profile
}

func (f *fakeProfiles) ListOnboarded(context.Context) ([]*entities.Profile, error) {
	return f.onboarded, nil
}

type fakeMetrics struct{ repositories.MetricRepository }

func (fakeMetrics) ListActive(context.Context, uuid.UUID) ([]*entities.Metric, error) {
	goal := 10.0
	return []*entities.Metric{{ID: uuid.New(), Name: "Leads", Goal: &goal}}, nil
}

func (fakeMetrics) LatestValues(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.MetricValue, error) {
	out := map[uuid.UUID]*entities.MetricValue{}
	for _, id := range ids {
		out[id] = &entities.MetricValue{MetricID: id, Value: 4}
	}
	return out, nil
}

type fakeRocks struct{ repositories.RockRepository }

func (fakeRocks) ListActive(context.Context, uuid.UUID) ([]*entities.Rock, error) { return nil, nil }

func (fakeRocks) ListRecentUpdates(context.Context, uuid.UUID, time.Time, int) ([]*entities.RockUpdate, error) {
	return nil, nil
}

type fakeIssues struct{ repositories.IssueRepository }

func (fakeIssues) Find(context.Context, uuid.UUID, repositories.IssueFilters) ([]*entities.Issue, error) {
	return nil, nil
}

type fakeTodos struct{ repositories.TodoRepository }

func (fakeTodos) CountPending(context.Context, uuid.UUID, uuid.UUID) (int64, error) { return 3, nil }

type fakeMeetings struct{ repositories.MeetingRepository }

func (fakeMeetings) FindNextScheduled(context.Context, uuid.UUID, time.Time) (*entities.L10Meeting, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeSummarizer struct {
	configured bool
	reply      string
	err        error
	calls      int
	lastUser   string
}

func (f *fakeSummarizer) Configured() bool { return f.configured }
func (f *fakeSummarizer) Model() string    { return "test-model" }

func (f *fakeSummarizer) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.lastUser = user
	return f.reply, f.err
}

type fixture struct {
	profile    *entities.Profile
	briefings  *fakeBriefings
	insights   *fakeInsights
	profiles   *fakeProfiles
	summarizer *fakeSummarizer
	now        time.Time
	svc        *BriefingService
}

func newFixture() *fixture {
	orgID := uuid.New()
	f := &fixture{
		profile:   &entities.Profile{ID: uuid.New(), OrganizationID: &orgID, FullName: "Alice", IsActive: true},
		briefings: &fakeBriefings{rows: map[string]*entities.Briefing{}},
		insights: &fakeInsights{alerts: []*entities.Alert{
			{Severity: entities.SeverityCritical, Title: "Cash below runway threshold"},
		}},
		summarizer: &fakeSummarizer{
			configured: true,
			reply:      "```json\n{\"content\": \"Leads are behind goal.\", \"highlights\": [\"Leads 4 vs 10\"]}\n```",
		},
		now: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
	}
	f.profiles = &fakeProfiles{onboarded: []*entities.Profile{f.profile}}

	repos := Repositories{
		Briefings: f.briefings,
		Insights:  f.insights,
		Profiles:  f.profiles,
		Metrics:   fakeMetrics{},
		Rocks:     fakeRocks{},
		Issues:    fakeIssues{},
		Todos:     fakeTodos{},
		Meetings:  fakeMeetings{},
	}
	f.svc = NewBriefingService(repos, f.summarizer, zap.NewNop(), WithClock(func() time.Time { return f.now }))
	return f
}

func TestGet_GeneratesThenServesCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Get(ctx, f.profile, false)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, first.Status)
	assert.False(t, first.IsCached)
	assert.Equal(t, "Leads are behind goal.", first.Content)
	assert.Equal(t, []string{"Leads 4 vs 10"}, first.Highlights)
	assert.Equal(t, "test-model", first.Model)
	assert.Contains(t, f.summarizer.lastUser, `"metrics_below_goal":1`)
	assert.Contains(t, f.summarizer.lastUser, `"pending_todos":3`)

	second, err := f.svc.Get(ctx, f.profile, false)
	require.NoError(t, err)
	assert.True(t, second.IsCached)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, 1, f.summarizer.calls)
}

func TestGet_RegenerateBypassesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.profile, false)
	require.NoError(t, err)

	again, err := f.svc.Get(ctx, f.profile, true)
	require.NoError(t, err)
	assert.False(t, again.IsCached)
	assert.Equal(t, 2, f.summarizer.calls)
	assert.Len(t, f.briefings.rows, 1)
}

func TestGet_MissingProfileAndOrganization(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Get(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, StatusSetupInProgress, res.Status)

	res, err = f.svc.Get(context.Background(), &entities.Profile{ID: uuid.New()}, false)
	require.NoError(t, err)
	assert.Equal(t, StatusOnboardingIncomplete, res.Status)
	assert.Zero(t, f.summarizer.calls)
}

func TestGet_NotConfiguredFallsBackToAlerts(t *testing.T) {
	f := newFixture()
	f.summarizer.configured = false

	res, err := f.svc.Get(context.Background(), f.profile, false)
	require.NoError(t, err)

	assert.Equal(t, StatusNotConfigured, res.Status)
	assert.Equal(t, []string{"[critical] Cash below runway threshold"}, res.Highlights)
	assert.Empty(t, f.briefings.rows)
}

func TestGet_SummarizerErrorIsNotStored(t *testing.T) {
	f := newFixture()
	f.summarizer.err = errors.New("429 rate limited")
	f.insights.alerts = nil

	res, err := f.svc.Get(context.Background(), f.profile, false)
	require.NoError(t, err)

	assert.Equal(t, StatusUnavailable, res.Status)
	assert.Equal(t, []string{"No open alerts"}, res.Highlights)
	assert.Empty(t, f.briefings.rows)
}

func TestGet_ContextReadFailure(t *testing.T) {
	f := newFixture()
	f.insights.err = errors.New("connection refused")

	_, err := f.svc.Get(context.Background(), f.profile, false)
	assert.ErrorContains(t, err, "alerts: connection refused")
}

func TestPregenerateAll_SkipsExisting(t *testing.T) {
	f := newFixture()
	other := uuid.New()
	second := &entities.Profile{ID: uuid.New(), OrganizationID: &other, IsActive: true}
	f.profiles.onboarded = append(f.profiles.onboarded, second)

	_, err := f.svc.Get(context.Background(), f.profile, false)
	require.NoError(t, err)

	stats, err := f.svc.PregenerateAll(context.Background(), f.now)
	require.NoError(t, err)

	assert.Equal(t, &PregenerateStats{Profiles: 2, Generated: 1, Skipped: 1}, stats)
	assert.Len(t, f.briefings.rows, 2)
}

func TestPregenerateAll_NotConfigured(t *testing.T) {
	f := newFixture()
	f.summarizer.configured = false

	stats, err := f.svc.PregenerateAll(context.Background(), f.now)
	require.NoError(t, err)
	assert.Zero(t, stats.Generated)
	assert.Empty(t, f.briefings.rows)
}

func TestParseSummary(t *testing.T) {
	got, err := parseSummary(`Here you go: {"content": "All good", "highlights": null}`)
	require.NoError(t, err)
	assert.Equal(t, "All good", got.Content)
	assert.Empty(t, got.Highlights)

	_, err = parseSummary(`{"highlights": ["x"]}`)
	assert.Error(t, err)
}
