package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// BriefingRepository defines the interface for daily briefing data access
type BriefingRepository interface {
	// FindByProfileAndDate retrieves the briefing of a profile for a day
	FindByProfileAndDate(ctx context.Context, profileID uuid.UUID, date time.Time) (*entities.Briefing, error)

	// Upsert inserts or replaces the briefing keyed by (profile_id, date)
	Upsert(ctx context.Context, briefing *entities.Briefing) error
}

// InsightRepository reads the signals that feed a briefing
type InsightRepository interface {
	// ListUnacknowledgedAlerts retrieves open alerts for a profile or the whole organization
	ListUnacknowledgedAlerts(ctx context.Context, orgID, profileID uuid.UUID) ([]*entities.Alert, error)

	// ListUnresolvedAnomalies retrieves anomalies not yet resolved
	ListUnresolvedAnomalies(ctx context.Context, orgID uuid.UUID) ([]*entities.Anomaly, error)

	// ListUnreadMentions retrieves mentions of a profile not yet read
	ListUnreadMentions(ctx context.Context, profileID uuid.UUID) ([]*entities.Mention, error)

	// FindVTO retrieves the organization's V/TO
	FindVTO(ctx context.Context, orgID uuid.UUID) (*entities.VTO, error)
}
