package meeting

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
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

type fakeMeetings struct {
	repositories.MeetingRepository

	mu        sync.Mutex
	meetings  map[uuid.UUID]*entities.L10Meeting
	agenda    map[uuid.UUID][]*entities.AgendaItem
	loseStart bool
	startErr  error
}

func newFakeMeetings() *fakeMeetings {
	return &fakeMeetings{
		meetings: map[uuid.UUID]*entities.L10Meeting{},
		agenda:   map[uuid.UUID][]*entities.AgendaItem{},
	}
}

func (f *fakeMeetings) put(m *entities.L10Meeting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meetings[m.ID] = m
	items := make([]*entities.AgendaItem, len(m.AgendaItems))
	for i := range m.AgendaItems {
		item := m.AgendaItems[i]
		items[i] = &item
	}
	f.agenda[m.ID] = items
}

func (f *fakeMeetings) Create(_ context.Context, m *entities.L10Meeting) error {
	f.put(m)
	return nil
}

func (f *fakeMeetings) FindByID(_ context.Context, orgID, id uuid.UUID) (*entities.L10Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok || m.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *m
	if items, ok := f.agenda[id]; ok {
		clone.AgendaItems = make([]entities.AgendaItem, 0, len(items))
		for _, item := range items {
			clone.AgendaItems = append(clone.AgendaItems, *item)
		}
	}
	return &clone, nil
}

func (f *fakeMeetings) Update(_ context.Context, m *entities.L10Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *m
	f.meetings[m.ID] = &clone
	return nil
}

func (f *fakeMeetings) MarkStarted(_ context.Context, _, id uuid.UUID, at time.Time, scorecard []entities.MetricSnapshot, rocks []entities.RockSnapshot, firstItemID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return false, f.startErr
	}
	m := f.meetings[id]
	if f.loseStart {
		m.Status = entities.MeetingStatusInProgress
		return false, nil
	}
	if m.Status != entities.MeetingStatusScheduled {
		return false, nil
	}
	m.Status = entities.MeetingStatusInProgress
	m.StartedAt = &at
	m.ScorecardSnapshot = scorecard
	m.RocksSnapshot = rocks
	if firstItemID != nil {
		if item := f.item(*firstItemID); item != nil && item.StartedAt == nil {
			item.StartedAt = &at
		}
	}
	return true, nil
}

func (f *fakeMeetings) MarkCompleted(_ context.Context, meeting *entities.L10Meeting) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.meetings[meeting.ID]
	if m.Status != entities.MeetingStatusInProgress {
		return false, nil
	}
	clone := *meeting
	clone.Status = entities.MeetingStatusCompleted
	f.meetings[meeting.ID] = &clone
	return true, nil
}

func (f *fakeMeetings) MarkCancelled(_ context.Context, _, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.meetings[id]
	if m.Status != entities.MeetingStatusScheduled {
		return false, nil
	}
	m.Status = entities.MeetingStatusCancelled
	return true, nil
}

func (f *fakeMeetings) ListAgendaItems(_ context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.AgendaItem, 0, len(f.agenda[meetingID]))
	for _, item := range f.agenda[meetingID] {
		clone := *item
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeMeetings) item(itemID uuid.UUID) *entities.AgendaItem {
	for _, items := range f.agenda {
		for _, item := range items {
			if item.ID == itemID {
				return item
			}
		}
	}
	return nil
}

func (f *fakeMeetings) StartAgendaItem(_ context.Context, itemID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item := f.item(itemID); item != nil && item.StartedAt == nil {
		item.StartedAt = &at
	}
	return nil
}

func (f *fakeMeetings) CompleteAgendaItem(_ context.Context, itemID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item := f.item(itemID); item != nil {
		item.CompletedAt = &at
	}
	return nil
}

func (f *fakeMeetings) CompleteOpenAgendaItems(_ context.Context, meetingID uuid.UUID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.agenda[meetingID] {
		if item.CompletedAt == nil {
			item.CompletedAt = &at
			n++
		}
	}
	return n, nil
}

type fakeIssues struct {
	repositories.IssueRepository

	mu         sync.Mutex
	issues     map[uuid.UUID]*entities.Issue
	updated    []*entities.Issue
	todos      *fakeTodos
	resolveErr error
	stale      bool
}

func (f *fakeIssues) FindByID(_ context.Context, orgID, id uuid.UUID) (*entities.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok || issue.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *issue
	if f.stale {
		clone.Status = entities.IssueStatusOpen
	}
	return &clone, nil
}

func (f *fakeIssues) Update(_ context.Context, issue *entities.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *issue
	f.issues[issue.ID] = &clone
	f.updated = append(f.updated, &clone)
	return nil
}

func (f *fakeIssues) Resolve(ctx context.Context, issue *entities.Issue, todo *entities.Todo) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return false, f.resolveErr
	}
	stored, ok := f.issues[issue.ID]
	if !ok || stored.Status != entities.IssueStatusOpen {
		return false, nil
	}
	if todo != nil {
		_ = f.todos.Create(ctx, todo)
	}
	clone := *issue
	f.issues[issue.ID] = &clone
	f.updated = append(f.updated, &clone)
	return true, nil
}

func (f *fakeIssues) ListQueued(_ context.Context, _, meetingID uuid.UUID) ([]*entities.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Issue
	for _, issue := range f.issues {
		if issue.MeetingID != nil && *issue.MeetingID == meetingID && !issue.IsResolved() && issue.QueuePosition != nil {
			clone := *issue
			out = append(out, &clone)
		}
	}
	sortByQueue(out)
	return out, nil
}

func (f *fakeIssues) ListDiscussed(_ context.Context, _, meetingID uuid.UUID) ([]*entities.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Issue
	for _, issue := range f.issues {
		if issue.DiscussedMeetingID != nil && *issue.DiscussedMeetingID == meetingID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func sortByQueue(issues []*entities.Issue) {
	for i := 1; i < len(issues); i++ {
		for j := i; j > 0 && *issues[j].QueuePosition < *issues[j-1].QueuePosition; j-- {
			issues[j], issues[j-1] = issues[j-1], issues[j]
		}
	}
}

type fakeTodos struct {
	repositories.TodoRepository

	mu      sync.Mutex
	created []*entities.Todo
	review  []*entities.Todo
	overdue []*entities.Todo
	before  time.Time
}

func (f *fakeTodos) Create(_ context.Context, todo *entities.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, todo)
	return nil
}

func (f *fakeTodos) ListForReview(context.Context, uuid.UUID, uuid.UUID, time.Time) ([]*entities.Todo, error) {
	return f.review, nil
}

func (f *fakeTodos) ListOverdue(_ context.Context, _ uuid.UUID, before time.Time) ([]*entities.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = before
	return f.overdue, nil
}

type fakeHeadlines struct {
	repositories.HeadlineRepository
}

func (fakeHeadlines) ListBetween(context.Context, uuid.UUID, time.Time, time.Time) ([]*entities.Headline, error) {
	return nil, nil
}

type fakeRocks struct {
	repositories.RockRepository

	rocks   []*entities.Rock
	findErr error
}

func (f *fakeRocks) ListActive(context.Context, uuid.UUID) ([]*entities.Rock, error) {
	return f.rocks, nil
}

func (f *fakeRocks) Find(context.Context, uuid.UUID, repositories.RockFilters) ([]*entities.Rock, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entities.Rock
	for _, r := range f.rocks {
		if r.Status.NeedsAttention() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRocks) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]*entities.Rock, error) {
	var out []*entities.Rock
	for _, r := range f.rocks {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type fakeMetrics struct {
	repositories.MetricRepository

	metrics []*entities.Metric
	latest  map[uuid.UUID]*entities.MetricValue
}

func (f *fakeMetrics) ListActive(context.Context, uuid.UUID) ([]*entities.Metric, error) {
	out := make([]*entities.Metric, len(f.metrics))
	for i, m := range f.metrics {
		clone := *m
		out[i] = &clone
	}
	return out, nil
}

func (f *fakeMetrics) LatestValues(context.Context, []uuid.UUID) (map[uuid.UUID]*entities.MetricValue, error) {
	return f.latest, nil
}

type fakeProfiles struct {
	repositories.ProfileRepository

	profiles map[uuid.UUID]*entities.Profile
}

func (f *fakeProfiles) FindByIDs(_ context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Profile, error) {
	var out []*entities.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok && p.OrganizationID != nil && *p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeArchive struct {
	objects map[string]string
}

func (f *fakeArchive) PutMarkdown(_ context.Context, name, content string) error {
	f.objects[name] = content
	return nil
}

func (f *fakeArchive) PresignedURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "https://storage.local/" + name, nil
}

type fixture struct {
	orgID    uuid.UUID
	alice    *entities.Profile
	bob      *entities.Profile
	meetings *fakeMeetings
	issues   *fakeIssues
	todos    *fakeTodos
	rocks    *fakeRocks
	metrics  *fakeMetrics
	archive  *fakeArchive
	now      time.Time
	svc      *MeetingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orgID := uuid.New()
	alice := &entities.Profile{ID: uuid.New(), OrganizationID: &orgID, FullName: "Alice Nguyen", IsActive: true}
	bob := &entities.Profile{ID: uuid.New(), OrganizationID: &orgID, FullName: "Bob Tran", IsActive: true}

	f := &fixture{
		orgID:    orgID,
		alice:    alice,
		bob:      bob,
		meetings: newFakeMeetings(),
		issues:   &fakeIssues{issues: map[uuid.UUID]*entities.Issue{}},
		todos:    &fakeTodos{},
		rocks:    &fakeRocks{},
		metrics:  &fakeMetrics{latest: map[uuid.UUID]*entities.MetricValue{}},
		archive:  &fakeArchive{objects: map[string]string{}},
		now:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	f.issues.todos = f.todos

	repos := Repositories{
		Meetings:  f.meetings,
		Issues:    f.issues,
		Todos:     f.todos,
		Headlines: fakeHeadlines{},
		Rocks:     f.rocks,
		Metrics:   f.metrics,
		Profiles:  &fakeProfiles{profiles: map[uuid.UUID]*entities.Profile{alice.ID: alice, bob.ID: bob}},
	}
	f.svc = NewMeetingService(repos, zap.NewNop(),
		WithNotesArchive(f.archive),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) scheduled(t *testing.T) *entities.L10Meeting {
	t.Helper()
	m, err := f.svc.Create(context.Background(), CreateInput{
		OrganizationID: f.orgID,
		CreatedBy:      f.alice.ID,
		Title:          "Weekly Leadership L10",
		ScheduledAt:    f.now,
		AttendeeIDs:    []uuid.UUID{f.bob.ID},
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) queueIssue(meetingID uuid.UUID, title string, pos int) *entities.Issue {
	issue := &entities.Issue{
		ID:             uuid.New(),
		OrganizationID: f.orgID,
		Title:          title,
		Status:         entities.IssueStatusOpen,
		RaisedBy:       f.alice.ID,
		MeetingID:      &meetingID,
		QueuePosition:  &pos,
	}
	f.issues.issues[issue.ID] = issue
	return issue
}

func TestCreate_AddsCreatorAndDefaultAgenda(t *testing.T) {
	f := newFixture(t)

	m := f.scheduled(t)

	assert.Equal(t, entities.MeetingStatusScheduled, m.Status)
	assert.Equal(t, entities.MeetingTypeCompany, m.MeetingType)
	assert.Len(t, m.AgendaItems, 7)
	require.Len(t, m.Attendees, 2)
	assert.Equal(t, f.alice.ID, m.Attendees[0].ProfileID)
	assert.Empty(t, m.Ratings.Data())
}

func TestCreate_RejectsForeignAttendee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		OrganizationID: f.orgID,
		CreatedBy:      f.alice.ID,
		Title:          "L10",
		ScheduledAt:    f.now,
		AttendeeIDs:    []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestStart_CapturesSnapshots(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	goal := 10.0
	revenue := &entities.Metric{ID: uuid.New(), OrganizationID: f.orgID, Name: "Demos booked", Goal: &goal, IsActive: true}
	f.metrics.metrics = []*entities.Metric{revenue}
	f.metrics.latest[revenue.ID] = &entities.MetricValue{MetricID: revenue.ID, Value: 7, RecordedAt: f.now.Add(-time.Hour)}
	f.rocks.rocks = []*entities.Rock{{ID: uuid.New(), OrganizationID: f.orgID, Title: "Launch v2", Status: entities.RockStatusAtRisk}}

	started, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	assert.Equal(t, entities.MeetingStatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	require.Len(t, started.ScorecardSnapshot, 1)
	require.NotNil(t, started.ScorecardSnapshot[0].CurrentValue)
	assert.Equal(t, 7.0, *started.ScorecardSnapshot[0].CurrentValue)
	require.Len(t, started.RocksSnapshot, 1)
	assert.Equal(t, entities.RockStatusAtRisk, started.RocksSnapshot[0].Status)

	items, err := f.meetings.ListAgendaItems(context.Background(), m.ID)
	require.NoError(t, err)
	assert.NotNil(t, items[0].StartedAt)
	assert.Nil(t, items[1].StartedAt)
}

func TestStart_RejectsInProgressMeeting(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), f.orgID, m.ID)
	require.Error(t, err)

	var stateErr *usecaseErrors.StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, "Cannot start meeting with status: in_progress", err.Error())
}

func TestStart_LosingConcurrentStartReportsCurrentStatus(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	f.meetings.loseStart = true

	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	assert.EqualError(t, err, "Cannot start meeting with status: in_progress")

	items, err := f.meetings.ListAgendaItems(context.Background(), m.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.Nil(t, item.StartedAt, item.Title)
	}
}

func TestStart_StartsFirstAgendaItemWithStatus(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	started, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	require.Len(t, started.AgendaItems, 7)
	require.NotNil(t, started.AgendaItems[0].StartedAt)
	assert.True(t, started.AgendaItems[0].StartedAt.Equal(*started.StartedAt))
	for _, item := range started.AgendaItems[1:] {
		assert.Nil(t, item.StartedAt, item.Title)
	}
}

func TestStart_StoreFailureLeavesMeetingScheduled(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	f.meetings.startErr = errors.New("connection reset")

	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.Error(t, err)

	got, err := f.svc.Get(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusScheduled, got.Status)
	assert.Nil(t, got.AgendaItems[0].StartedAt)
}

func TestEnd_StoresDurationRatingsAndNotes(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	f.now = f.now.Add(47 * time.Minute)
	messages := "Office closed Friday"
	ended, err := f.svc.End(context.Background(), EndInput{
		OrganizationID:    f.orgID,
		MeetingID:         m.ID,
		Ratings:           map[string]int{f.alice.ID.String(): 8, f.bob.ID.String(): 9},
		CascadingMessages: &messages,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.MeetingStatusCompleted, ended.Status)
	require.NotNil(t, ended.DurationMinutes)
	assert.Equal(t, 47, *ended.DurationMinutes)
	require.NotNil(t, ended.Notes)
	assert.Contains(t, *ended.Notes, "**Duration:** 47 minutes")
	assert.Contains(t, *ended.Notes, "Team Average: 8.5/10")
	assert.Contains(t, *ended.Notes, "Office closed Friday")

	key := NotesKey(f.orgID, m.ID, f.now)
	assert.Equal(t, *ended.Notes, f.archive.objects[key])
	require.NotNil(t, ended.NotesObjectKey)
	assert.Equal(t, key, *ended.NotesObjectKey)

	items, err := f.meetings.ListAgendaItems(context.Background(), m.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotNil(t, item.CompletedAt, item.Title)
	}

	notes, err := f.svc.Notes(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	require.NotNil(t, notes.DownloadURL)
	assert.Contains(t, *notes.DownloadURL, key)
}

func TestEnd_RejectsOutOfRangeRating(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	_, err = f.svc.End(context.Background(), EndInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		Ratings:        map[string]int{f.alice.ID.String(): 11},
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestEnd_RequiresInProgress(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	_, err := f.svc.End(context.Background(), EndInput{OrganizationID: f.orgID, MeetingID: m.ID})
	assert.EqualError(t, err, "Cannot end meeting with status: scheduled")
}

func TestCancelAndDelete(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	cancelled, err := f.svc.Cancel(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(context.Background(), f.orgID, m.ID)
	assert.EqualError(t, err, "Cannot cancel meeting with status: cancelled")

	_, err = f.svc.Update(context.Background(), UpdateInput{OrganizationID: f.orgID, MeetingID: m.ID})
	assert.ErrorIs(t, err, usecaseErrors.ErrMeetingNotEditable)
}

func TestGet_OtherOrganizationIsNotFound(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	_, err := f.svc.Get(context.Background(), uuid.New(), m.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrMeetingNotFound)
}

func TestCompleteAgendaItem_StartsNext(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	f.now = f.now.Add(5 * time.Minute)
	items, err := f.svc.CompleteAgendaItem(context.Background(), f.orgID, m.ID, m.AgendaItems[0].ID)
	require.NoError(t, err)

	require.NotNil(t, items[0].CompletedAt)
	assert.Equal(t, f.now, *items[0].CompletedAt)
	require.NotNil(t, items[1].StartedAt)
	assert.Nil(t, items[2].StartedAt)

	_, err = f.svc.CompleteAgendaItem(context.Background(), f.orgID, m.ID, uuid.New())
	assert.ErrorIs(t, err, usecaseErrors.ErrAgendaItemNotFound)
}

func TestResolveIssue_TodoCreatedLinksTodo(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	first := f.queueIssue(m.ID, "Hiring pipeline is empty", 0)
	second := f.queueIssue(m.ID, "Churn up in Q1", 1)

	title := "Post two job listings"
	due := f.now.AddDate(0, 0, 7)
	out, err := f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        first.ID,
		Outcome:        entities.OutcomeTodoCreated,
		TodoTitle:      &title,
		TodoOwnerID:    &f.bob.ID,
		TodoDueDate:    &due,
	})
	require.NoError(t, err)

	require.Len(t, f.todos.created, 1)
	todo := f.todos.created[0]
	assert.Equal(t, title, todo.Title)
	assert.Equal(t, f.bob.ID, *todo.OwnerID)
	assert.Equal(t, m.ID, *todo.MeetingID)
	assert.Equal(t, first.ID, *todo.SourceIssueID)

	assert.Equal(t, entities.IssueStatusResolved, out.Issue.Status)
	assert.Equal(t, todo.ID, *out.Issue.LinkedTodoID)
	require.NotNil(t, out.NextIssueID)
	assert.Equal(t, second.ID, *out.NextIssueID)
}

func TestResolveIssue_StoreFailureLeavesNoTodo(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	issue := f.queueIssue(m.ID, "Hiring pipeline is empty", 0)
	f.issues.resolveErr = errors.New("deadlock detected")

	title := "Post two job listings"
	input := ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        issue.ID,
		Outcome:        entities.OutcomeTodoCreated,
		TodoTitle:      &title,
	}
	_, err = f.svc.ResolveIssue(context.Background(), input)
	require.Error(t, err)
	assert.Empty(t, f.todos.created)
	assert.Equal(t, entities.IssueStatusOpen, f.issues.issues[issue.ID].Status)

	f.issues.resolveErr = nil
	out, err := f.svc.ResolveIssue(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, f.todos.created, 1)
	assert.Equal(t, f.todos.created[0].ID, *out.Issue.LinkedTodoID)
}

func TestResolveIssue_ConcurrentResolveLosesCleanly(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	issue := f.queueIssue(m.ID, "Churn up in Q1", 0)

	// another request resolved it after this one read the issue
	issue.Status = entities.IssueStatusResolved
	f.issues.stale = true

	title := "Call top accounts"
	_, err = f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        issue.ID,
		Outcome:        entities.OutcomeTodoCreated,
		TodoTitle:      &title,
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
	assert.Empty(t, f.todos.created)
	assert.Empty(t, f.issues.updated)
}

func TestResolveIssue_TodoCreatedRequiresTitle(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	issue := f.queueIssue(m.ID, "Pricing", 0)

	_, err = f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        issue.ID,
		Outcome:        entities.OutcomeTodoCreated,
	})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
	assert.Empty(t, f.todos.created)
	assert.Empty(t, f.issues.updated)
}

func TestResolveIssue_PushedReturnsToBacklog(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	first := f.queueIssue(m.ID, "Office move", 0)
	second := f.queueIssue(m.ID, "Vendor contract", 1)
	last := f.queueIssue(m.ID, "Travel policy", 2)

	out, err := f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        last.ID,
		Outcome:        entities.OutcomePushed,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.IssueStatusOpen, out.Issue.Status)
	assert.Nil(t, out.Issue.MeetingID)
	assert.Nil(t, out.Issue.QueuePosition)
	require.NotNil(t, out.Issue.Outcome)
	assert.Equal(t, entities.OutcomePushed, *out.Issue.Outcome)

	// wraps around to the earliest unresolved issue
	require.NotNil(t, out.NextIssueID)
	assert.Equal(t, first.ID, *out.NextIssueID)
	assert.NotEqual(t, second.ID, *out.NextIssueID)
}

func TestResolveIssue_LastIssueHasNoNext(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	_, err := f.svc.Start(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)
	only := f.queueIssue(m.ID, "Budget", 0)

	out, err := f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        only.ID,
		Outcome:        entities.OutcomeSolved,
	})
	require.NoError(t, err)
	assert.Nil(t, out.NextIssueID)
}

func TestResolveIssue_RequiresInProgress(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	issue := f.queueIssue(m.ID, "Budget", 0)

	_, err := f.svc.ResolveIssue(context.Background(), ResolveIssueInput{
		OrganizationID: f.orgID,
		MeetingID:      m.ID,
		IssueID:        issue.ID,
		Outcome:        entities.OutcomeKilled,
	})
	var stateErr *usecaseErrors.StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestPreview_DegradesFailedSection(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)
	f.queueIssue(m.ID, "Hiring", 0)
	f.rocks.findErr = errors.New("connection reset")

	goal := 100.0
	below := &entities.Metric{ID: uuid.New(), Name: "NPS", Goal: &goal, IsActive: true}
	noGoal := &entities.Metric{ID: uuid.New(), Name: "Calls", IsActive: true}
	f.metrics.metrics = []*entities.Metric{below, noGoal}
	f.metrics.latest[below.ID] = &entities.MetricValue{MetricID: below.ID, Value: 40}
	f.metrics.latest[noGoal.ID] = &entities.MetricValue{MetricID: noGoal.ID, Value: 3}

	f.todos.overdue = []*entities.Todo{{ID: uuid.New(), Title: "Send invoice"}}

	preview, err := f.svc.Preview(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	assert.Len(t, preview.QueuedIssues, 1)
	assert.NotNil(t, preview.RocksAtRisk)
	assert.Empty(t, preview.RocksAtRisk)
	require.Len(t, preview.MetricsOffGoal, 1)
	assert.Equal(t, "NPS", preview.MetricsOffGoal[0].Name)
	assert.Len(t, preview.OverdueTodos, 1)
}

func TestPreview_OverdueCutoffIsStartOfScheduledDay(t *testing.T) {
	f := newFixture(t)
	pst := time.FixedZone("PST", -8*3600)
	m, err := f.svc.Create(context.Background(), CreateInput{
		OrganizationID: f.orgID,
		CreatedBy:      f.alice.ID,
		Title:          "Late L10",
		ScheduledAt:    time.Date(2026, 3, 4, 23, 30, 0, 0, pst),
	})
	require.NoError(t, err)

	_, err = f.svc.Preview(context.Background(), f.orgID, m.ID)
	require.NoError(t, err)

	// 23:30 PST on the 4th is the 5th in UTC; to-dos due that day are not yet overdue
	assert.True(t, f.todos.before.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)), f.todos.before.String())
	assert.Equal(t, time.UTC, f.todos.before.Location())
}

func TestNotes_MissingBeforeCompletion(t *testing.T) {
	f := newFixture(t)
	m := f.scheduled(t)

	_, err := f.svc.Notes(context.Background(), f.orgID, m.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrNotFound)
}

func TestNotesKey(t *testing.T) {
	org := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	at := time.Date(2026, 3, 2, 23, 0, 0, 0, time.FixedZone("PST", -8*3600))

	assert.Equal(t,
		"orgs/11111111-1111-1111-1111-111111111111/meetings/2026-03-03/22222222-2222-2222-2222-222222222222.md",
		NotesKey(org, id, at))
}
