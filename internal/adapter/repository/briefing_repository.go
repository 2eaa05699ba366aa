package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// briefingRepository implements the BriefingRepository interface
type briefingRepository struct {
	db *gorm.DB
}

// NewBriefingRepository creates a new briefing repository
func NewBriefingRepository(db *gorm.DB) repositories.BriefingRepository {
	return &briefingRepository{db: db}
}

// FindByProfileAndDate retrieves the briefing of a profile for a day
func (r *briefingRepository) FindByProfileAndDate(ctx context.Context, profileID uuid.UUID, date time.Time) (*entities.Briefing, error) {
	var briefing entities.Briefing
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND date = ?", profileID, entities.BriefingDate(date)).
		First(&briefing).Error

	if err != nil {
		return nil, err
	}
	return &briefing, nil
}

// Upsert inserts or replaces the briefing keyed by (profile_id, date)
func (r *briefingRepository) Upsert(ctx context.Context, briefing *entities.Briefing) error {
	briefing.Date = entities.BriefingDate(briefing.Date)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "highlights", "model", "generated_at"}),
		}).
		Create(briefing).Error
}

// insightRepository implements the InsightRepository interface
type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *gorm.DB) repositories.InsightRepository {
	return &insightRepository{db: db}
}

// ListUnacknowledgedAlerts retrieves open alerts for a profile or the whole organization
func (r *insightRepository) ListUnacknowledgedAlerts(ctx context.Context, orgID, profileID uuid.UUID) ([]*entities.Alert, error) {
	var alerts []*entities.Alert
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND acknowledged_at IS NULL", orgID).
		Where("profile_id IS NULL OR profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(20).
		Find(&alerts).Error
	return alerts, err
}

// ListUnresolvedAnomalies retrieves anomalies not yet resolved
func (r *insightRepository) ListUnresolvedAnomalies(ctx context.Context, orgID uuid.UUID) ([]*entities.Anomaly, error) {
	var anomalies []*entities.Anomaly
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND resolved_at IS NULL", orgID).
		Order("detected_at DESC").
		Limit(20).
		Find(&anomalies).Error
	return anomalies, err
}

// ListUnreadMentions retrieves mentions of a profile not yet read
func (r *insightRepository) ListUnreadMentions(ctx context.Context, profileID uuid.UUID) ([]*entities.Mention, error) {
	var mentions []*entities.Mention
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND read_at IS NULL", profileID).
		Order("created_at DESC").
		Limit(20).
		Find(&mentions).Error
	return mentions, err
}

// FindVTO retrieves the organization's V/TO
func (r *insightRepository) FindVTO(ctx context.Context, orgID uuid.UUID) (*entities.VTO, error) {
	var vto entities.VTO
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&vto).Error; err != nil {
		return nil, err
	}
	return &vto, nil
}
