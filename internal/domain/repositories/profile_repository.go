package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	OrgScoped[entities.Profile]

	// FindByAuthUserID finds the profile bound to an identity-provider subject
	FindByAuthUserID(ctx context.Context, authUserID string) (*entities.Profile, error)

	// FindByEmail finds a profile in an organization by email
	FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*entities.Profile, error)

	// FindUnclaimedByEmail finds an invited profile not yet bound to any account
	FindUnclaimedByEmail(ctx context.Context, email string) (*entities.Profile, error)

	// FindByIDs loads the given profiles of an organization
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Profile, error)

	// ListOnboarded returns active profiles that belong to an organization
	ListOnboarded(ctx context.Context) ([]*entities.Profile, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *entities.Organization) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error)

	// FindBySlug finds an organization by slug
	FindBySlug(ctx context.Context, slug string) (*entities.Organization, error)
}
