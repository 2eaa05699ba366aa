package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// rockRepository implements the RockRepository interface
type rockRepository struct {
	*orgScoped[entities.Rock]
	db *gorm.DB
}

// NewRockRepository creates a new rock repository
func NewRockRepository(db *gorm.DB) repositories.RockRepository {
	return &rockRepository{
		orgScoped: newOrgScoped[entities.Rock](db, "quarter DESC, created_at ASC", "Owner"),
		db:        db,
	}
}

// Find retrieves rocks matching filters, with owners
func (r *rockRepository) Find(ctx context.Context, orgID uuid.UUID, filters repositories.RockFilters) ([]*entities.Rock, error) {
	var rocks []*entities.Rock

	query := r.db.WithContext(ctx).
		Preload("Owner").
		Where("organization_id = ?", orgID)

	if !filters.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.PillarID != nil {
		query = query.Where("pillar_id = ?", *filters.PillarID)
	}
	if filters.Quarter != "" {
		query = query.Where("quarter = ?", filters.Quarter)
	}

	err := query.Order("created_at ASC").Find(&rocks).Error
	return rocks, err
}

// ListActive retrieves non-archived rocks with owners
func (r *rockRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]*entities.Rock, error) {
	return r.Find(ctx, orgID, repositories.RockFilters{})
}

// FindByIDs retrieves the given rocks of an organization
func (r *rockRepository) FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Rock, error) {
	var rocks []*entities.Rock
	if len(ids) == 0 {
		return rocks, nil
	}
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Find(&rocks).Error
	return rocks, err
}

// CreateUpdate records a status note against a rock
func (r *rockRepository) CreateUpdate(ctx context.Context, update *entities.RockUpdate) error {
	return r.db.WithContext(ctx).Omit("Rock").Create(update).Error
}

// ListRecentUpdates retrieves rock updates posted since the given time, newest first
func (r *rockRepository) ListRecentUpdates(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]*entities.RockUpdate, error) {
	var updates []*entities.RockUpdate
	err := r.db.WithContext(ctx).
		Joins("Rock").
		Where("\"Rock\".organization_id = ? AND rock_updates.created_at >= ?", orgID, since).
		Order("rock_updates.created_at DESC").
		Limit(limit).
		Find(&updates).Error
	return updates, err
}
