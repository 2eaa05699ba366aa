package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// MeetingRepository defines the interface for L10 meeting data access
type MeetingRepository interface {
	// Create inserts a meeting together with its agenda and attendees
	Create(ctx context.Context, meeting *entities.L10Meeting) error

	// FindByID retrieves a meeting with creator, attendees and agenda
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*entities.L10Meeting, error)

	// List retrieves meetings with filters
	List(ctx context.Context, orgID uuid.UUID, filters MeetingFilters) ([]*entities.L10Meeting, error)

	// Update saves the meeting columns, leaving associations untouched
	Update(ctx context.Context, meeting *entities.L10Meeting) error

	// Delete removes a meeting and its agenda
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// MarkStarted moves a scheduled meeting to in_progress, stores the snapshots and starts
	// firstItemID, when set, in one transaction. It reports false when the meeting was no longer scheduled.
	MarkStarted(ctx context.Context, orgID, id uuid.UUID, startedAt time.Time, scorecard []entities.MetricSnapshot, rocks []entities.RockSnapshot, firstItemID *uuid.UUID) (bool, error)

	// MarkCompleted persists the end-of-meeting fields of an in_progress meeting.
	// It reports false when the meeting was no longer in progress.
	MarkCompleted(ctx context.Context, meeting *entities.L10Meeting) (bool, error)

	// MarkCancelled cancels a scheduled meeting
	MarkCancelled(ctx context.Context, orgID, id uuid.UUID) (bool, error)

	// FindNextScheduled returns the earliest scheduled meeting after the given time
	FindNextScheduled(ctx context.Context, orgID uuid.UUID, after time.Time) (*entities.L10Meeting, error)

	// ListAgendaItems retrieves agenda items ordered by sort order
	ListAgendaItems(ctx context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error)

	// StartAgendaItem stamps started_at on an item that has not started
	StartAgendaItem(ctx context.Context, itemID uuid.UUID, at time.Time) error

	// CompleteAgendaItem stamps completed_at on an item
	CompleteAgendaItem(ctx context.Context, itemID uuid.UUID, at time.Time) error

	// CompleteOpenAgendaItems completes every unfinished item of a meeting
	CompleteOpenAgendaItems(ctx context.Context, meetingID uuid.UUID, at time.Time) (int64, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status *entities.MeetingStatus
	Type   *entities.MeetingType
	From   *time.Time
	To     *time.Time
	Limit  int
}
