package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// TodoRepository defines the interface for to-do data access
type TodoRepository interface {
	OrgScoped[entities.Todo]

	// Find retrieves to-dos matching filters
	Find(ctx context.Context, orgID uuid.UUID, filters TodoFilters) ([]*entities.Todo, error)

	// ListOverdue retrieves to-dos not done whose due date is strictly before the given day
	ListOverdue(ctx context.Context, orgID uuid.UUID, before time.Time) ([]*entities.Todo, error)

	// ListForReview retrieves to-dos reviewed in a meeting: those attached to it,
	// those still open or pushed, and those completed since the meeting started
	ListForReview(ctx context.Context, orgID, meetingID uuid.UUID, since time.Time) ([]*entities.Todo, error)

	// CountPending counts to-dos of an owner that are not done
	CountPending(ctx context.Context, orgID, ownerID uuid.UUID) (int64, error)
}

// TodoFilters represents filter options for listing to-dos
type TodoFilters struct {
	Status    *entities.TodoStatus
	OwnerID   *uuid.UUID
	MeetingID *uuid.UUID
	Limit     int
}

// HeadlineRepository defines the interface for headline data access
type HeadlineRepository interface {
	OrgScoped[entities.Headline]

	// ListBetween retrieves headlines created in [from, to), newest first
	ListBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*entities.Headline, error)
}
