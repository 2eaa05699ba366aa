package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	*orgScoped[entities.Profile]
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{
		orgScoped: newOrgScoped[entities.Profile](db, "full_name ASC"),
		db:        db,
	}
}

// FindByAuthUserID finds the profile bound to an identity-provider subject
func (r *profileRepository) FindByAuthUserID(ctx context.Context, authUserID string) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.WithContext(ctx).
		Where("auth_user_id = ?", authUserID).
		First(&profile).Error

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile in an organization by email
func (r *profileRepository) FindByEmail(ctx context.Context, orgID uuid.UUID, email string) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND LOWER(email) = LOWER(?)", orgID, email).
		First(&profile).Error

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindUnclaimedByEmail finds an invited profile not yet bound to any account
func (r *profileRepository) FindUnclaimedByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.WithContext(ctx).
		Where("auth_user_id IS NULL AND LOWER(email) = LOWER(?) AND is_active = ?", email, true).
		Order("created_at ASC").
		First(&profile).Error

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDs loads the given profiles of an organization
func (r *profileRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Profile, error) {
	var profiles []*entities.Profile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Find(&profiles).Error
	return profiles, err
}

// ListOnboarded returns active profiles that belong to an organization
func (r *profileRepository) ListOnboarded(ctx context.Context) ([]*entities.Profile, error) {
	var profiles []*entities.Profile
	err := r.db.WithContext(ctx).
		Where("organization_id IS NOT NULL AND is_active = ?", true).
		Order("created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

// organizationRepository implements the OrganizationRepository interface
type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) repositories.OrganizationRepository {
	return &organizationRepository{db: db}
}

// Create creates a new organization
func (r *organizationRepository) Create(ctx context.Context, org *entities.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// FindByID finds an organization by ID
func (r *organizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	var org entities.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindBySlug finds an organization by slug
func (r *organizationRepository) FindBySlug(ctx context.Context, slug string) (*entities.Organization, error) {
	var org entities.Organization
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
