package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

var errNotScheduled = errors.New("meeting is not scheduled")

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create inserts a meeting together with its agenda and attendees
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.L10Meeting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(meeting).Error; err != nil {
			return err
		}
		if len(meeting.AgendaItems) > 0 {
			for i := range meeting.AgendaItems {
				meeting.AgendaItems[i].MeetingID = meeting.ID
			}
			if err := tx.Create(&meeting.AgendaItems).Error; err != nil {
				return err
			}
		}
		if len(meeting.Attendees) > 0 {
			for i := range meeting.Attendees {
				meeting.Attendees[i].MeetingID = meeting.ID
			}
			if err := tx.Omit("Profile").Create(&meeting.Attendees).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a meeting with creator, attendees and agenda
func (r *meetingRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*entities.L10Meeting, error) {
	var meeting entities.L10Meeting
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Attendees.Profile").
		Preload("AgendaItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&meeting).Error

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// List retrieves meetings with filters
func (r *meetingRepository) List(ctx context.Context, orgID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.L10Meeting, error) {
	var meetings []*entities.L10Meeting

	query := r.db.WithContext(ctx).
		Preload("Creator").
		Where("organization_id = ?", orgID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("meeting_type = ?", *filters.Type)
	}
	if filters.From != nil {
		query = query.Where("scheduled_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("scheduled_at < ?", *filters.To)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	err := query.Order("scheduled_at DESC").Limit(limit).Find(&meetings).Error
	return meetings, err
}

// Update saves the meeting columns, leaving associations untouched
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.L10Meeting) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(meeting).Error
}

// Delete removes a meeting and its agenda
func (r *meetingRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("organization_id = ? AND id = ?", orgID, id).Delete(&entities.L10Meeting{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.AgendaItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&entities.MeetingAttendee{}).Error; err != nil {
			return err
		}
		// Queued issues go back to the backlog
		return tx.Model(&entities.Issue{}).
			Where("meeting_id = ?", id).
			Updates(map[string]interface{}{"meeting_id": nil, "queue_position": nil}).Error
	})
}

// MarkStarted moves a scheduled meeting to in_progress, stores the snapshots and starts the first agenda item
func (r *meetingRepository) MarkStarted(
	ctx context.Context,
	orgID, id uuid.UUID,
	startedAt time.Time,
	scorecard []entities.MetricSnapshot,
	rocks []entities.RockSnapshot,
	firstItemID *uuid.UUID,
) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.L10Meeting{}).
			Where("organization_id = ? AND id = ? AND status = ?", orgID, id, entities.MeetingStatusScheduled).
			Updates(map[string]interface{}{
				"status":             entities.MeetingStatusInProgress,
				"started_at":         startedAt,
				"scorecard_snapshot": datatypes.NewJSONSlice(scorecard),
				"rocks_snapshot":     datatypes.NewJSONSlice(rocks),
				"updated_at":         startedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotScheduled
		}
		if firstItemID == nil {
			return nil
		}
		return tx.Model(&entities.AgendaItem{}).
			Where("id = ? AND meeting_id = ? AND started_at IS NULL", *firstItemID, id).
			Update("started_at", startedAt).Error
	})

	if errors.Is(err, errNotScheduled) {
		return false, nil
	}
	return err == nil, err
}

// MarkCompleted persists the end-of-meeting fields of an in_progress meeting
func (r *meetingRepository) MarkCompleted(ctx context.Context, meeting *entities.L10Meeting) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.L10Meeting{}).
		Where("organization_id = ? AND id = ? AND status = ?", meeting.OrganizationID, meeting.ID, entities.MeetingStatusInProgress).
		Updates(map[string]interface{}{
			"status":             entities.MeetingStatusCompleted,
			"ended_at":           meeting.EndedAt,
			"duration_minutes":   meeting.DurationMinutes,
			"ratings":            meeting.Ratings,
			"cascading_messages": meeting.CascadingMessages,
			"notes":              meeting.Notes,
			"updated_at":         meeting.EndedAt,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkCancelled cancels a scheduled meeting
func (r *meetingRepository) MarkCancelled(ctx context.Context, orgID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.L10Meeting{}).
		Where("organization_id = ? AND id = ? AND status = ?", orgID, id, entities.MeetingStatusScheduled).
		Update("status", entities.MeetingStatusCancelled)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindNextScheduled returns the earliest scheduled meeting after the given time
func (r *meetingRepository) FindNextScheduled(ctx context.Context, orgID uuid.UUID, after time.Time) (*entities.L10Meeting, error) {
	var meeting entities.L10Meeting
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ? AND scheduled_at >= ?", orgID, entities.MeetingStatusScheduled, after).
		Order("scheduled_at ASC").
		First(&meeting).Error

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListAgendaItems retrieves agenda items ordered by sort order
func (r *meetingRepository) ListAgendaItems(ctx context.Context, meetingID uuid.UUID) ([]*entities.AgendaItem, error) {
	var items []*entities.AgendaItem
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("sort_order ASC").
		Find(&items).Error
	return items, err
}

// StartAgendaItem stamps started_at on an item that has not started
func (r *meetingRepository) StartAgendaItem(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.AgendaItem{}).
		Where("id = ? AND started_at IS NULL", itemID).
		Update("started_at", at).Error
}

// CompleteAgendaItem stamps completed_at on an item
func (r *meetingRepository) CompleteAgendaItem(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.AgendaItem{}).
		Where("id = ?", itemID).
		Update("completed_at", at).Error
}

// CompleteOpenAgendaItems completes every unfinished item of a meeting
func (r *meetingRepository) CompleteOpenAgendaItems(ctx context.Context, meetingID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.AgendaItem{}).
		Where("meeting_id = ? AND completed_at IS NULL", meetingID).
		Update("completed_at", at)
	return result.RowsAffected, result.Error
}
