package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

var errIssueNotOpen = errors.New("issue is not open")

// issueRepository implements the IssueRepository interface
type issueRepository struct {
	*orgScoped[entities.Issue]
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) repositories.IssueRepository {
	return &issueRepository{
		orgScoped: newOrgScoped[entities.Issue](db, "priority DESC, created_at ASC", "Raiser"),
		db:        db,
	}
}

// Find retrieves issues matching filters
func (r *issueRepository) Find(ctx context.Context, orgID uuid.UUID, filters repositories.IssueFilters) ([]*entities.Issue, error) {
	var issues []*entities.Issue

	query := r.db.WithContext(ctx).
		Preload("Raiser").
		Where("organization_id = ?", orgID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.MeetingID != nil {
		query = query.Where("meeting_id = ?", *filters.MeetingID)
	}
	if filters.RaisedBy != nil {
		query = query.Where("raised_by = ?", *filters.RaisedBy)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	err := query.Order("priority DESC, created_at ASC").Find(&issues).Error
	return issues, err
}

// ListQueued retrieves issues queued to a meeting, by queue position then creation time
func (r *issueRepository) ListQueued(ctx context.Context, orgID, meetingID uuid.UUID) ([]*entities.Issue, error) {
	var issues []*entities.Issue
	err := r.db.WithContext(ctx).
		Preload("Raiser").
		Where("organization_id = ? AND meeting_id = ? AND status = ?", orgID, meetingID, entities.IssueStatusOpen).
		Order("queue_position ASC NULLS LAST, created_at ASC").
		Find(&issues).Error
	return issues, err
}

// ListDiscussed retrieves issues resolved during a meeting in discussion order
func (r *issueRepository) ListDiscussed(ctx context.Context, orgID, meetingID uuid.UUID) ([]*entities.Issue, error) {
	var issues []*entities.Issue
	err := r.db.WithContext(ctx).
		Preload("LinkedTodo.Owner").
		Where("organization_id = ? AND discussed_meeting_id = ?", orgID, meetingID).
		Order("discussed_at ASC").
		Find(&issues).Error
	return issues, err
}

// Resolve stores an IDS outcome on an open issue and creates its linked to-do in one transaction
func (r *issueRepository) Resolve(ctx context.Context, issue *entities.Issue, todo *entities.Todo) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if todo != nil {
			if err := tx.Omit(clause.Associations).Create(todo).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&entities.Issue{}).
			Where("organization_id = ? AND id = ? AND status = ?", issue.OrganizationID, issue.ID, entities.IssueStatusOpen).
			Updates(map[string]interface{}{
				"status":               issue.Status,
				"meeting_id":           issue.MeetingID,
				"queue_position":       issue.QueuePosition,
				"outcome":              issue.Outcome,
				"decision_notes":       issue.DecisionNotes,
				"linked_todo_id":       issue.LinkedTodoID,
				"discussed_meeting_id": issue.DiscussedMeetingID,
				"discussed_at":         issue.DiscussedAt,
				"resolved_at":          issue.ResolvedAt,
				"updated_at":           issue.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		// Rolls back the to-do as well
		if result.RowsAffected == 0 {
			return errIssueNotOpen
		}
		return nil
	})

	if errors.Is(err, errIssueNotOpen) {
		return false, nil
	}
	return err == nil, err
}

// NextQueuePosition returns the position after the last queued issue of a meeting
func (r *issueRepository) NextQueuePosition(ctx context.Context, meetingID uuid.UUID) (int, error) {
	var maxPos *int
	err := r.db.WithContext(ctx).
		Model(&entities.Issue{}).
		Where("meeting_id = ?", meetingID).
		Select("MAX(queue_position)").
		Scan(&maxPos).Error

	if err != nil {
		return 0, err
	}
	if maxPos == nil {
		return 0, nil
	}
	return *maxPos + 1, nil
}
