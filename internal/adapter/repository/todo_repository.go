package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// todoRepository implements the TodoRepository interface
type todoRepository struct {
	*orgScoped[entities.Todo]
	db *gorm.DB
}

// NewTodoRepository creates a new to-do repository
func NewTodoRepository(db *gorm.DB) repositories.TodoRepository {
	return &todoRepository{
		orgScoped: newOrgScoped[entities.Todo](db, "due_date ASC NULLS LAST, created_at ASC", "Owner"),
		db:        db,
	}
}

// Find retrieves to-dos matching filters
func (r *todoRepository) Find(ctx context.Context, orgID uuid.UUID, filters repositories.TodoFilters) ([]*entities.Todo, error) {
	var todos []*entities.Todo

	query := r.db.WithContext(ctx).
		Preload("Owner").
		Where("organization_id = ?", orgID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.MeetingID != nil {
		query = query.Where("meeting_id = ?", *filters.MeetingID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	err := query.Order("due_date ASC NULLS LAST, created_at ASC").Find(&todos).Error
	return todos, err
}

// ListOverdue retrieves to-dos not done whose due date is strictly before the given day
func (r *todoRepository) ListOverdue(ctx context.Context, orgID uuid.UUID, before time.Time) ([]*entities.Todo, error) {
	var todos []*entities.Todo
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("organization_id = ? AND status <> ? AND due_date < ?", orgID, entities.TodoStatusDone, before).
		Order("due_date ASC").
		Find(&todos).Error
	return todos, err
}

// ListForReview retrieves to-dos reviewed in a meeting
func (r *todoRepository) ListForReview(ctx context.Context, orgID, meetingID uuid.UUID, since time.Time) ([]*entities.Todo, error) {
	var todos []*entities.Todo
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("organization_id = ?", orgID).
		Where(
			r.db.Where("meeting_id = ?", meetingID).
				Or("status <> ?", entities.TodoStatusDone).
				Or("completed_at >= ?", since),
		).
		Find(&todos).Error
	return todos, err
}

// CountPending counts to-dos of an owner that are not done
func (r *todoRepository) CountPending(ctx context.Context, orgID, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Todo{}).
		Where("organization_id = ? AND owner_id = ? AND status <> ?", orgID, ownerID, entities.TodoStatusDone).
		Count(&count).Error
	return count, err
}

// headlineRepository implements the HeadlineRepository interface
type headlineRepository struct {
	*orgScoped[entities.Headline]
	db *gorm.DB
}

// NewHeadlineRepository creates a new headline repository
func NewHeadlineRepository(db *gorm.DB) repositories.HeadlineRepository {
	return &headlineRepository{
		orgScoped: newOrgScoped[entities.Headline](db, "created_at DESC", "Author"),
		db:        db,
	}
}

// ListBetween retrieves headlines created in [from, to), newest first
func (r *headlineRepository) ListBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]*entities.Headline, error) {
	var headlines []*entities.Headline
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", orgID, from, to).
		Order("created_at DESC").
		Find(&headlines).Error
	return headlines, err
}
