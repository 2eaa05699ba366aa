package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// orgScoped implements repositories.OrgScoped for any table with organization_id and id columns
type orgScoped[T any] struct {
	db       *gorm.DB
	order    string
	preloads []string
}

func newOrgScoped[T any](db *gorm.DB, order string, preloads ...string) *orgScoped[T] {
	return &orgScoped[T]{db: db, order: order, preloads: preloads}
}

func (r *orgScoped[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// Create inserts a new entity
func (r *orgScoped[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
}

// FindByID retrieves an entity by ID within an organization
func (r *orgScoped[T]) FindByID(ctx context.Context, orgID, id uuid.UUID) (*T, error) {
	var entity T
	err := r.query(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&entity).Error

	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update saves all columns of an existing entity
func (r *orgScoped[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

// Delete removes an entity by ID within an organization
func (r *orgScoped[T]) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(new(T))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves entities of an organization
func (r *orgScoped[T]) List(ctx context.Context, orgID uuid.UUID, opts repositories.ListOptions) ([]*T, error) {
	var out []*T
	query := r.query(ctx).Where("organization_id = ?", orgID)

	if r.order != "" {
		query = query.Order(r.order)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
