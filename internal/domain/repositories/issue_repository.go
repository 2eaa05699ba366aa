package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	OrgScoped[entities.Issue]

	// Find retrieves issues matching filters
	Find(ctx context.Context, orgID uuid.UUID, filters IssueFilters) ([]*entities.Issue, error)

	// ListQueued retrieves issues queued to a meeting, by queue position then creation time
	ListQueued(ctx context.Context, orgID, meetingID uuid.UUID) ([]*entities.Issue, error)

	// ListDiscussed retrieves issues resolved during a meeting in discussion order
	ListDiscussed(ctx context.Context, orgID, meetingID uuid.UUID) ([]*entities.Issue, error)

	// Resolve stores an IDS outcome on an open issue and creates its linked to-do, if any,
	// in the same transaction. It reports false when the issue was no longer open.
	Resolve(ctx context.Context, issue *entities.Issue, todo *entities.Todo) (bool, error)

	// NextQueuePosition returns the position after the last queued issue of a meeting
	NextQueuePosition(ctx context.Context, meetingID uuid.UUID) (int, error)
}

// IssueFilters represents filter options for listing issues
type IssueFilters struct {
	Status    *entities.IssueStatus
	MeetingID *uuid.UUID
	RaisedBy  *uuid.UUID
	Limit     int
}
