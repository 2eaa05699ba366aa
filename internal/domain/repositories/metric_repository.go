package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// MetricRepository defines the interface for scorecard metric data access
type MetricRepository interface {
	OrgScoped[entities.Metric]

	// ListActive retrieves active metrics with owners
	ListActive(ctx context.Context, orgID uuid.UUID) ([]*entities.Metric, error)

	// LatestValues returns the most recent value per metric, keyed by metric ID
	LatestValues(ctx context.Context, metricIDs []uuid.UUID) (map[uuid.UUID]*entities.MetricValue, error)

	// RecordValue stores a new data point
	RecordValue(ctx context.Context, value *entities.MetricValue) error

	// ListValues retrieves the most recent values of a metric, newest first
	ListValues(ctx context.Context, metricID uuid.UUID, limit int) ([]*entities.MetricValue, error)
}
