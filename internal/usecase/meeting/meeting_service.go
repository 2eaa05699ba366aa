package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/ids"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/pkg/metrics"
)

const notesURLExpiry = 15 * time.Minute

// Repositories groups the stores the meeting service reads and writes
type Repositories struct {
	Meetings  repositories.MeetingRepository
	Issues    repositories.IssueRepository
	Todos     repositories.TodoRepository
	Headlines repositories.HeadlineRepository
	Rocks     repositories.RockRepository
	Metrics   repositories.MetricRepository
	Profiles  repositories.ProfileRepository
}

// Option configures optional collaborators of MeetingService
type Option func(*MeetingService)

// WithNotesArchive uploads completed notes to object storage
func WithNotesArchive(archive NotesArchive) Option {
	return func(s *MeetingService) { s.archive = archive }
}

// WithAnnouncer posts completion messages to chat
func WithAnnouncer(announcer Announcer) Option {
	return func(s *MeetingService) { s.announcer = announcer }
}

// WithCalendar pushes new meetings to the creator's calendar
func WithCalendar(calendar CalendarPublisher) Option {
	return func(s *MeetingService) { s.calendar = calendar }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *MeetingService) { s.now = now }
}

var _ Service = (*MeetingService)(nil)

// MeetingService handles the L10 meeting lifecycle
type MeetingService struct {
	repos     Repositories
	archive   NotesArchive
	announcer Announcer
	calendar  CalendarPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewMeetingService creates a new meeting service
func NewMeetingService(repos Repositories, logger *zap.Logger, opts ...Option) *MeetingService {
	s := &MeetingService{
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create schedules a meeting with the standard agenda. The creator always attends.
func (s *MeetingService) Create(ctx context.Context, input CreateInput) (*entities.L10Meeting, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, usecaseErrors.Invalid("title is required")
	}
	if input.MeetingType == "" {
		input.MeetingType = entities.MeetingTypeCompany
	}
	if !input.MeetingType.IsValid() {
		return nil, usecaseErrors.Invalid("invalid meeting_type: %s", input.MeetingType)
	}

	attendeeIDs := uniqueIDs(append([]uuid.UUID{input.CreatedBy}, input.AttendeeIDs...))
	attendees, err := s.repos.Profiles.FindByIDs(ctx, input.OrganizationID, attendeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %w", err)
	}
	if len(attendees) != len(attendeeIDs) {
		return nil, usecaseErrors.Invalid("attendee_ids contains profiles outside the organization")
	}

	meeting := &entities.L10Meeting{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          title,
		MeetingType:    input.MeetingType,
		PillarID:       input.PillarID,
		ScheduledAt:    input.ScheduledAt.UTC(),
		Status:         entities.MeetingStatusScheduled,
		Ratings:        datatypes.NewJSONType(entities.Ratings{}),
		CreatedBy:      input.CreatedBy,
	}
	meeting.AgendaItems = entities.DefaultAgenda(meeting.ID)
	for _, id := range attendeeIDs {
		meeting.Attendees = append(meeting.Attendees, entities.MeetingAttendee{MeetingID: meeting.ID, ProfileID: id})
	}

	if err := s.repos.Meetings.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	s.publishToCalendar(ctx, meeting, attendees)

	return s.Get(ctx, input.OrganizationID, meeting.ID)
}

// publishToCalendar is best effort: a calendar failure never fails scheduling
func (s *MeetingService) publishToCalendar(ctx context.Context, meeting *entities.L10Meeting, attendees []*entities.Profile) {
	if s.calendar == nil {
		return
	}

	eventID, err := s.calendar.PublishMeeting(ctx, meeting, attendees)
	if err != nil {
		s.logger.Warn("failed to push meeting to calendar",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
		return
	}
	if eventID == "" {
		return
	}

	meeting.CalendarEventID = &eventID
	if err := s.repos.Meetings.Update(ctx, meeting); err != nil {
		s.logger.Warn("failed to store calendar event id",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}
}

// List retrieves meetings of an organization
func (s *MeetingService) List(ctx context.Context, orgID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.L10Meeting, error) {
	meetings, err := s.repos.Meetings.List(ctx, orgID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Get retrieves a meeting by ID
func (s *MeetingService) Get(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error) {
	meeting, err := s.repos.Meetings.FindByID(ctx, orgID, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// Update changes title or schedule of a scheduled meeting
func (s *MeetingService) Update(ctx context.Context, input UpdateInput) (*entities.L10Meeting, error) {
	meeting, err := s.Get(ctx, input.OrganizationID, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsEditable() {
		return nil, usecaseErrors.ErrMeetingNotEditable
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, usecaseErrors.Invalid("title cannot be empty")
		}
		meeting.Title = title
	}
	if input.ScheduledAt != nil {
		meeting.ScheduledAt = input.ScheduledAt.UTC()
	}

	if err := s.repos.Meetings.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

// Cancel cancels a scheduled meeting
func (s *MeetingService) Cancel(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error) {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != entities.MeetingStatusScheduled {
		metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusCancelled), metrics.ResultRejected).Inc()
		return nil, &usecaseErrors.StateError{Action: "cancel", Status: string(meeting.Status)}
	}

	ok, err := s.repos.Meetings.MarkCancelled(ctx, orgID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel meeting: %w", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, orgID, meetingID, "cancel", entities.MeetingStatusCancelled)
	}

	metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusCancelled), metrics.ResultOK).Inc()
	meeting.Status = entities.MeetingStatusCancelled
	return meeting, nil
}

// Delete removes a meeting unless it is in progress
func (s *MeetingService) Delete(ctx context.Context, orgID, meetingID uuid.UUID) error {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return err
	}
	if meeting.Status == entities.MeetingStatusInProgress {
		return usecaseErrors.ErrMeetingInProgress
	}

	if err := s.repos.Meetings.Delete(ctx, orgID, meetingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrMeetingNotFound
		}
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}

// Start captures the scorecard and rock snapshots and moves the meeting to in_progress.
// The status write is conditional, so of two concurrent starts only one succeeds.
func (s *MeetingService) Start(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error) {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.CanStart() {
		metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusInProgress), metrics.ResultRejected).Inc()
		return nil, &usecaseErrors.StateError{Action: "start", Status: string(meeting.Status)}
	}

	var (
		activeMetrics []*entities.Metric
		activeRocks   []*entities.Rock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activeMetrics, err = s.repos.Metrics.ListActive(gctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to load metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		activeRocks, err = s.repos.Rocks.ListActive(gctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to load rocks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.attachLatestValues(ctx, activeMetrics); err != nil {
		return nil, err
	}

	scorecard := make([]entities.MetricSnapshot, 0, len(activeMetrics))
	for _, m := range activeMetrics {
		scorecard = append(scorecard, m.Snapshot())
	}
	rocks := make([]entities.RockSnapshot, 0, len(activeRocks))
	for _, r := range activeRocks {
		rocks = append(rocks, r.Snapshot())
	}

	var firstItemID *uuid.UUID
	if len(meeting.AgendaItems) > 0 {
		firstItemID = &meeting.AgendaItems[0].ID
	}

	startedAt := s.now().UTC()
	ok, err := s.repos.Meetings.MarkStarted(ctx, orgID, meetingID, startedAt, scorecard, rocks, firstItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to start meeting: %w", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, orgID, meetingID, "start", entities.MeetingStatusInProgress)
	}
	metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusInProgress), metrics.ResultOK).Inc()

	s.logger.Info("meeting started",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("metrics", len(scorecard)),
		zap.Int("rocks", len(rocks)),
	)

	return s.Get(ctx, orgID, meetingID)
}

// End completes an in-progress meeting, assembling and storing the markdown notes
func (s *MeetingService) End(ctx context.Context, input EndInput) (*entities.L10Meeting, error) {
	meeting, err := s.Get(ctx, input.OrganizationID, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.CanEnd() {
		metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusCompleted), metrics.ResultRejected).Inc()
		return nil, &usecaseErrors.StateError{Action: "end", Status: string(meeting.Status)}
	}

	ratings := entities.Ratings(input.Ratings)
	if ratings == nil {
		ratings = entities.Ratings{}
	}
	if err := ratings.Validate(); err != nil {
		return nil, usecaseErrors.Invalid("%s", err.Error())
	}

	endedAt := s.now().UTC()
	duration := meeting.DurationUntil(endedAt)

	summary, err := s.gatherSummary(ctx, meeting, endedAt)
	if err != nil {
		return nil, err
	}
	summary.Duration = duration
	summary.Ratings = ratings
	summary.Messages = input.CascadingMessages
	notes := BuildSummary(*summary)

	meeting.EndedAt = &endedAt
	meeting.DurationMinutes = &duration
	meeting.Ratings = datatypes.NewJSONType(ratings)
	meeting.CascadingMessages = input.CascadingMessages
	meeting.Notes = &notes

	ok, err := s.repos.Meetings.MarkCompleted(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("failed to end meeting: %w", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, input.OrganizationID, input.MeetingID, "end", entities.MeetingStatusCompleted)
	}
	metrics.MeetingTransitions.WithLabelValues(string(entities.MeetingStatusCompleted), metrics.ResultOK).Inc()
	meeting.Status = entities.MeetingStatusCompleted

	if _, err := s.repos.Meetings.CompleteOpenAgendaItems(ctx, meeting.ID, endedAt); err != nil {
		s.logger.Warn("failed to complete open agenda items",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	s.archiveNotes(ctx, meeting)
	s.announce(ctx, meeting)

	s.logger.Info("meeting completed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Int("duration_minutes", duration),
		zap.Int("ratings", len(ratings)),
	)

	return s.Get(ctx, input.OrganizationID, input.MeetingID)
}

// gatherSummary loads everything the notes are built from concurrently
func (s *MeetingService) gatherSummary(ctx context.Context, meeting *entities.L10Meeting, endedAt time.Time) (*SummaryInput, error) {
	in := &SummaryInput{Meeting: meeting, EndedAt: endedAt}

	since := endedAt
	if meeting.StartedAt != nil {
		since = *meeting.StartedAt
	}
	dayStart := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)

	rockIDs := make([]uuid.UUID, 0, len(meeting.RocksSnapshot))
	for _, r := range meeting.RocksSnapshot {
		rockIDs = append(rockIDs, r.ID)
	}
	metricIDs := make([]uuid.UUID, 0, len(meeting.ScorecardSnapshot))
	for _, m := range meeting.ScorecardSnapshot {
		metricIDs = append(metricIDs, m.ID)
	}

	orgID := meeting.OrganizationID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Issues, err = s.repos.Issues.ListDiscussed(gctx, orgID, meeting.ID)
		return wrap(err, "failed to load discussed issues")
	})
	g.Go(func() error {
		var err error
		in.Todos, err = s.repos.Todos.ListForReview(gctx, orgID, meeting.ID, since)
		return wrap(err, "failed to load to-dos")
	})
	g.Go(func() error {
		var err error
		in.Headlines, err = s.repos.Headlines.ListBetween(gctx, orgID, dayStart, dayStart.Add(24*time.Hour))
		return wrap(err, "failed to load headlines")
	})
	g.Go(func() error {
		if len(rockIDs) == 0 {
			return nil
		}
		rocks, err := s.repos.Rocks.FindByIDs(gctx, orgID, rockIDs)
		if err != nil {
			return wrap(err, "failed to load rocks")
		}
		in.CurrentRocks = make(map[uuid.UUID]*entities.Rock, len(rocks))
		for _, r := range rocks {
			in.CurrentRocks[r.ID] = r
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.CurrentValues, err = s.repos.Metrics.LatestValues(gctx, metricIDs)
		return wrap(err, "failed to load metric values")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// archiveNotes uploads the notes and records the object key. Failures are logged only.
func (s *MeetingService) archiveNotes(ctx context.Context, meeting *entities.L10Meeting) {
	if s.archive == nil || meeting.Notes == nil || meeting.EndedAt == nil {
		return
	}

	key := NotesKey(meeting.OrganizationID, meeting.ID, *meeting.EndedAt)
	if err := s.archive.PutMarkdown(ctx, key, *meeting.Notes); err != nil {
		s.logger.Warn("failed to archive meeting notes",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
		return
	}

	meeting.NotesObjectKey = &key
	if err := s.repos.Meetings.Update(ctx, meeting); err != nil {
		s.logger.Warn("failed to store notes object key",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *MeetingService) announce(ctx context.Context, meeting *entities.L10Meeting) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.AnnounceMeetingCompleted(ctx, meeting); err != nil {
		s.logger.Warn("failed to announce completed meeting",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
	}
}

// lostRace reports the status that beat a conditional update
func (s *MeetingService) lostRace(ctx context.Context, orgID, meetingID uuid.UUID, action string, target entities.MeetingStatus) error {
	metrics.MeetingTransitions.WithLabelValues(string(target), metrics.ResultRejected).Inc()

	current, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return err
	}
	return &usecaseErrors.StateError{Action: action, Status: string(current.Status)}
}

// Preview gathers pre-meeting prep data. Each list degrades to empty on failure.
func (s *MeetingService) Preview(ctx context.Context, orgID, meetingID uuid.UUID) (*Preview, error) {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		Meeting:        meeting,
		QueuedIssues:   []*entities.Issue{},
		RocksAtRisk:    []*entities.Rock{},
		MetricsOffGoal: []*entities.Metric{},
		OverdueTodos:   []*entities.Todo{},
	}
	day := meeting.ScheduledAt.UTC()
	scheduledDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	// Fetches never return an error to the group so one failure cannot cancel the rest
	var g errgroup.Group
	g.Go(func() error {
		issues, err := s.repos.Issues.ListQueued(ctx, orgID, meetingID)
		if s.previewFailed("queued_issues", meetingID, err) {
			return nil
		}
		preview.QueuedIssues = issues
		return nil
	})
	g.Go(func() error {
		rocks, err := s.repos.Rocks.Find(ctx, orgID, repositories.RockFilters{
			Statuses: []entities.RockStatus{entities.RockStatusOffTrack, entities.RockStatusAtRisk},
		})
		if s.previewFailed("rocks_at_risk", meetingID, err) {
			return nil
		}
		preview.RocksAtRisk = rocks
		return nil
	})
	g.Go(func() error {
		below, err := s.metricsBelowGoal(ctx, orgID)
		if s.previewFailed("metrics_below_goal", meetingID, err) {
			return nil
		}
		preview.MetricsOffGoal = below
		return nil
	})
	g.Go(func() error {
		todos, err := s.repos.Todos.ListOverdue(ctx, orgID, scheduledDay)
		if s.previewFailed("overdue_todos", meetingID, err) {
			return nil
		}
		preview.OverdueTodos = todos
		return nil
	})
	_ = g.Wait()

	return preview, nil
}

func (s *MeetingService) previewFailed(section string, meetingID uuid.UUID, err error) bool {
	if err == nil {
		return false
	}
	s.logger.Warn("preview section failed",
		zap.String("section", section),
		zap.String("meeting_id", meetingID.String()),
		zap.Error(err),
	)
	return true
}

// metricsBelowGoal returns active goaled metrics whose latest value is under goal
func (s *MeetingService) metricsBelowGoal(ctx context.Context, orgID uuid.UUID) ([]*entities.Metric, error) {
	active, err := s.repos.Metrics.ListActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	goaled := make([]*entities.Metric, 0, len(active))
	for _, m := range active {
		if m.Goal != nil {
			goaled = append(goaled, m)
		}
	}
	if err := s.attachLatestValues(ctx, goaled); err != nil {
		return nil, err
	}

	below := make([]*entities.Metric, 0)
	for _, m := range goaled {
		if m.BelowGoal() {
			below = append(below, m)
		}
	}
	return below, nil
}

func (s *MeetingService) attachLatestValues(ctx context.Context, list []*entities.Metric) error {
	if len(list) == 0 {
		return nil
	}
	metricIDs := make([]uuid.UUID, len(list))
	for i, m := range list {
		metricIDs[i] = m.ID
	}

	latest, err := s.repos.Metrics.LatestValues(ctx, metricIDs)
	if err != nil {
		return fmt.Errorf("failed to load latest metric values: %w", err)
	}
	for _, m := range list {
		m.AttachLatest(latest[m.ID])
	}
	return nil
}

// CompleteAgendaItem completes an item of an in-progress meeting and starts the next one by sort order
func (s *MeetingService) CompleteAgendaItem(ctx context.Context, orgID, meetingID, itemID uuid.UUID) ([]*entities.AgendaItem, error) {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != entities.MeetingStatusInProgress {
		return nil, &usecaseErrors.StateError{Action: "update agenda of", Status: string(meeting.Status)}
	}

	items, err := s.repos.Meetings.ListAgendaItems(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agenda: %w", err)
	}

	idx := -1
	for i, item := range items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, usecaseErrors.ErrAgendaItemNotFound
	}

	at := s.now().UTC()
	if items[idx].CompletedAt == nil {
		if err := s.repos.Meetings.CompleteAgendaItem(ctx, itemID, at); err != nil {
			return nil, fmt.Errorf("failed to complete agenda item: %w", err)
		}
		items[idx].CompletedAt = &at
	}
	if items[idx].StartedAt == nil {
		items[idx].StartedAt = &at
	}

	if idx+1 < len(items) && items[idx+1].StartedAt == nil {
		next := items[idx+1]
		if err := s.repos.Meetings.StartAgendaItem(ctx, next.ID, at); err != nil {
			return nil, fmt.Errorf("failed to start next agenda item: %w", err)
		}
		next.StartedAt = &at
	}

	return items, nil
}

// ResolveIssue records an IDS outcome for an issue discussed in an in-progress meeting
func (s *MeetingService) ResolveIssue(ctx context.Context, input ResolveIssueInput) (*ResolveIssueOutput, error) {
	if !input.Outcome.IsValid() {
		return nil, usecaseErrors.Invalid("invalid outcome: %s", input.Outcome)
	}

	meeting, err := s.Get(ctx, input.OrganizationID, input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != entities.MeetingStatusInProgress {
		return nil, &usecaseErrors.StateError{Action: "resolve issues in", Status: string(meeting.Status)}
	}

	issue, err := s.repos.Issues.FindByID(ctx, input.OrganizationID, input.IssueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	if issue.IsResolved() {
		return nil, usecaseErrors.Invalid("issue is already resolved")
	}

	// Snapshot the queue before the resolution removes the issue from it
	queue, err := s.repos.Issues.ListQueued(ctx, input.OrganizationID, input.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue queue: %w", err)
	}

	at := s.now().UTC()
	out := &ResolveIssueOutput{Issue: issue}

	var todo *entities.Todo
	if input.Outcome == entities.OutcomeTodoCreated {
		todo, err = s.linkedTodo(ctx, input, issue)
		if err != nil {
			return nil, err
		}
		issue.LinkedTodoID = &todo.ID
	}

	issue.Resolve(input.MeetingID, input.Outcome, input.DecisionNotes, at)
	issue.UpdatedAt = at
	resolved, err := s.repos.Issues.Resolve(ctx, issue, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve issue: %w", err)
	}
	if !resolved {
		return nil, usecaseErrors.Invalid("issue is already resolved")
	}
	out.Todo = todo

	out.NextIssueID = nextInQueue(queue, issue.ID, input.Outcome)
	return out, nil
}

// linkedTodo builds the to-do for a todo_created outcome. It is stored together with the issue.
func (s *MeetingService) linkedTodo(ctx context.Context, input ResolveIssueInput, issue *entities.Issue) (*entities.Todo, error) {
	if input.TodoTitle == nil || strings.TrimSpace(*input.TodoTitle) == "" {
		return nil, usecaseErrors.Invalid("%s", entities.ErrTodoTitleRequired.Error())
	}
	if input.TodoOwnerID != nil {
		owners, err := s.repos.Profiles.FindByIDs(ctx, input.OrganizationID, []uuid.UUID{*input.TodoOwnerID})
		if err != nil {
			return nil, fmt.Errorf("failed to load to-do owner: %w", err)
		}
		if len(owners) == 0 {
			return nil, usecaseErrors.Invalid("todo_owner_id is not a member of the organization")
		}
	}

	meetingID := input.MeetingID
	issueID := issue.ID
	todo := &entities.Todo{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Title:          strings.TrimSpace(*input.TodoTitle),
		OwnerID:        input.TodoOwnerID,
		DueDate:        input.TodoDueDate,
		Status:         entities.TodoStatusOpen,
		MeetingID:      &meetingID,
		SourceIssueID:  &issueID,
	}
	return todo, nil
}

// nextInQueue walks the IDS queue to the next unresolved issue after the resolved one
func nextInQueue(queue []*entities.Issue, resolvedID uuid.UUID, outcome entities.IssueOutcome) *uuid.UUID {
	issueIDs := make([]uuid.UUID, len(queue))
	for i, q := range queue {
		issueIDs[i] = q.ID
	}

	session := ids.New(issueIDs)
	if err := session.Focus(resolvedID); err != nil {
		// Resolved out of queue: the first queued issue is next
		if len(issueIDs) == 0 {
			return nil
		}
		first := issueIDs[0]
		return &first
	}

	next, ok, err := session.Resolve(outcome)
	if err != nil || !ok {
		return nil
	}
	return &next
}

// Notes returns the stored notes and, when archived, a presigned download URL
func (s *MeetingService) Notes(ctx context.Context, orgID, meetingID uuid.UUID) (*Notes, error) {
	meeting, err := s.Get(ctx, orgID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Notes == nil {
		return nil, usecaseErrors.NotFound("Meeting notes")
	}

	notes := &Notes{MeetingID: meeting.ID, Markdown: *meeting.Notes}
	if s.archive != nil && meeting.NotesObjectKey != nil {
		url, err := s.archive.PresignedURL(ctx, *meeting.NotesObjectKey, notesURLExpiry)
		if err != nil {
			s.logger.Warn("failed to presign notes url",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		} else {
			notes.DownloadURL = &url
		}
	}
	return notes, nil
}

// NotesKey is the object name of a meeting's archived notes
func NotesKey(orgID, meetingID uuid.UUID, endedAt time.Time) string {
	return fmt.Sprintf("orgs/%s/meetings/%s/%s.md", orgID, endedAt.UTC().Format("2006-01-02"), meetingID)
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func uniqueIDs(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
