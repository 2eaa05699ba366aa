package repositories

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions controls pagination for list queries
type ListOptions struct {
	Limit  int
	Offset int
}

// OrgScoped is the data access shared by every organization-owned entity.
// Lookups outside the caller's organization behave as not found.
type OrgScoped[T any] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity *T) error

	// FindByID retrieves an entity by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*T, error)

	// Update saves all columns of an existing entity
	Update(ctx context.Context, entity *T) error

	// Delete removes an entity by ID within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// List retrieves entities of an organization
	List(ctx context.Context, orgID uuid.UUID, opts ListOptions) ([]*T, error)
}
