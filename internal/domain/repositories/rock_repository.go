package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// RockRepository defines the interface for rock data access
type RockRepository interface {
	OrgScoped[entities.Rock]

	// Find retrieves rocks matching filters, with owners
	Find(ctx context.Context, orgID uuid.UUID, filters RockFilters) ([]*entities.Rock, error)

	// ListActive retrieves non-archived rocks with owners
	ListActive(ctx context.Context, orgID uuid.UUID) ([]*entities.Rock, error)

	// FindByIDs retrieves the given rocks of an organization
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Rock, error)

	// CreateUpdate records a status note against a rock
	CreateUpdate(ctx context.Context, update *entities.RockUpdate) error

	// ListRecentUpdates retrieves rock updates posted since the given time, newest first
	ListRecentUpdates(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]*entities.RockUpdate, error)
}

// RockFilters represents filter options for listing rocks
type RockFilters struct {
	Statuses        []entities.RockStatus
	Level           *entities.RockLevel
	OwnerID         *uuid.UUID
	PillarID        *uuid.UUID
	Quarter         string
	IncludeArchived bool
}
