package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// Service defines the interface for the L10 meeting use case
type Service interface {
	// Create schedules a meeting with the standard agenda
	Create(ctx context.Context, input CreateInput) (*entities.L10Meeting, error)

	// List retrieves meetings of an organization
	List(ctx context.Context, orgID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.L10Meeting, error)

	// Get retrieves a meeting with creator, attendees and agenda
	Get(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error)

	// Update changes title or schedule of a meeting that has not started
	Update(ctx context.Context, input UpdateInput) (*entities.L10Meeting, error)

	// Cancel cancels a scheduled meeting
	Cancel(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error)

	// Delete removes a meeting that is not in progress
	Delete(ctx context.Context, orgID, meetingID uuid.UUID) error

	// Start snapshots the scorecard and rocks and moves the meeting to in_progress
	Start(ctx context.Context, orgID, meetingID uuid.UUID) (*entities.L10Meeting, error)

	// End completes an in-progress meeting and stores the generated notes
	End(ctx context.Context, input EndInput) (*entities.L10Meeting, error)

	// Preview gathers pre-meeting prep data
	Preview(ctx context.Context, orgID, meetingID uuid.UUID) (*Preview, error)

	// CompleteAgendaItem completes an item and starts the next one
	CompleteAgendaItem(ctx context.Context, orgID, meetingID, itemID uuid.UUID) ([]*entities.AgendaItem, error)

	// ResolveIssue records the IDS outcome of a queued issue
	ResolveIssue(ctx context.Context, input ResolveIssueInput) (*ResolveIssueOutput, error)

	// Notes returns the stored notes of a completed meeting
	Notes(ctx context.Context, orgID, meetingID uuid.UUID) (*Notes, error)
}

// CreateInput represents input for scheduling a meeting
type CreateInput struct {
	OrganizationID uuid.UUID
	CreatedBy      uuid.UUID
	Title          string
	MeetingType    entities.MeetingType
	PillarID       *uuid.UUID
	ScheduledAt    time.Time
	AttendeeIDs    []uuid.UUID
}

// UpdateInput represents the editable fields of a scheduled meeting
type UpdateInput struct {
	OrganizationID uuid.UUID
	MeetingID      uuid.UUID
	Title          *string
	ScheduledAt    *time.Time
}

// EndInput represents input for ending a meeting
type EndInput struct {
	OrganizationID    uuid.UUID
	MeetingID         uuid.UUID
	Ratings           map[string]int
	CascadingMessages *string
}

// ResolveIssueInput represents an IDS resolution
type ResolveIssueInput struct {
	OrganizationID uuid.UUID
	MeetingID      uuid.UUID
	IssueID        uuid.UUID
	Outcome        entities.IssueOutcome
	DecisionNotes  *string
	TodoTitle      *string
	TodoOwnerID    *uuid.UUID
	TodoDueDate    *time.Time
}

// ResolveIssueOutput is the resolved issue and the next one to discuss
type ResolveIssueOutput struct {
	Issue       *entities.Issue `json:"issue"`
	Todo        *entities.Todo  `json:"todo,omitempty"`
	NextIssueID *uuid.UUID      `json:"next_issue_id"`
}

// Preview is the pre-meeting prep aggregate
type Preview struct {
	Meeting        *entities.L10Meeting `json:"meeting"`
	QueuedIssues   []*entities.Issue    `json:"queued_issues"`
	RocksAtRisk    []*entities.Rock     `json:"rocks_at_risk"`
	MetricsOffGoal []*entities.Metric   `json:"metrics_below_goal"`
	OverdueTodos   []*entities.Todo     `json:"overdue_todos"`
}

// Notes is the markdown summary of a completed meeting
type Notes struct {
	MeetingID   uuid.UUID `json:"meeting_id"`
	Markdown    string    `json:"markdown"`
	DownloadURL *string   `json:"download_url,omitempty"`
}

// NotesArchive stores rendered notes outside the database
type NotesArchive interface {
	PutMarkdown(ctx context.Context, objectName, content string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Announcer posts meeting events to the organization's chat workspace
type Announcer interface {
	AnnounceMeetingCompleted(ctx context.Context, meeting *entities.L10Meeting) error
}

// CalendarPublisher pushes scheduled meetings to the creator's calendar
type CalendarPublisher interface {
	PublishMeeting(ctx context.Context, meeting *entities.L10Meeting, attendees []*entities.Profile) (string, error)
}
