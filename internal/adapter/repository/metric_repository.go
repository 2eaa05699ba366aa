package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

// metricRepository implements the MetricRepository interface
type metricRepository struct {
	*orgScoped[entities.Metric]
	db *gorm.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *gorm.DB) repositories.MetricRepository {
	return &metricRepository{
		orgScoped: newOrgScoped[entities.Metric](db, "name ASC", "Owner"),
		db:        db,
	}
}

// ListActive retrieves active metrics with owners
func (r *metricRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]*entities.Metric, error) {
	var metrics []*entities.Metric
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("name ASC").
		Find(&metrics).Error
	return metrics, err
}

// LatestValues returns the most recent value per metric, keyed by metric ID
func (r *metricRepository) LatestValues(ctx context.Context, metricIDs []uuid.UUID) (map[uuid.UUID]*entities.MetricValue, error) {
	latest := make(map[uuid.UUID]*entities.MetricValue, len(metricIDs))
	if len(metricIDs) == 0 {
		return latest, nil
	}

	var values []*entities.MetricValue
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (metric_id) *
			FROM metric_values
			WHERE metric_id IN ?
			ORDER BY metric_id, recorded_at DESC`, metricIDs).
		Scan(&values).Error
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		latest[v.MetricID] = v
	}
	return latest, nil
}

// RecordValue stores a new data point
func (r *metricRepository) RecordValue(ctx context.Context, value *entities.MetricValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

// ListValues retrieves the most recent values of a metric, newest first
func (r *metricRepository) ListValues(ctx context.Context, metricID uuid.UUID, limit int) ([]*entities.MetricValue, error) {
	var values []*entities.MetricValue
	if limit <= 0 {
		limit = 13
	}
	err := r.db.WithContext(ctx).
		Where("metric_id = ?", metricID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&values).Error
	return values, err
}
