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

// integrationRepository implements the IntegrationRepository interface
type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *gorm.DB) repositories.IntegrationRepository {
	return &integrationRepository{db: db}
}

// UpsertSlackWorkspace inserts or updates a workspace keyed by team ID
func (r *integrationRepository) UpsertSlackWorkspace(ctx context.Context, ws *entities.SlackWorkspace) error {
	columns := []string{"organization_id", "team_name", "bot_user_id", "bot_token", "installed_by", "is_active", "updated_at"}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(ws).Error
}

// FindSlackWorkspace retrieves the active workspace of an organization
func (r *integrationRepository) FindSlackWorkspace(ctx context.Context, orgID uuid.UUID) (*entities.SlackWorkspace, error) {
	var ws entities.SlackWorkspace
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("updated_at DESC").
		First(&ws).Error

	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindSlackWorkspaceByTeam retrieves a workspace by Slack team ID
func (r *integrationRepository) FindSlackWorkspaceByTeam(ctx context.Context, teamID string) (*entities.SlackWorkspace, error) {
	var ws entities.SlackWorkspace
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND is_active = ?", teamID, true).
		First(&ws).Error

	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// DeleteSlackWorkspace removes the organization's workspace
func (r *integrationRepository) DeleteSlackWorkspace(ctx context.Context, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&entities.SlackWorkspace{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertCalendarConnection inserts or updates a connection keyed by (profile_id, provider)
func (r *integrationRepository) UpsertCalendarConnection(ctx context.Context, conn *entities.CalendarConnection) error {
	columns := []string{"email", "access_token", "refresh_token", "token_expiry", "calendar_id", "updated_at"}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(conn).Error
}

// FindCalendarConnection retrieves a profile's connection for a provider
func (r *integrationRepository) FindCalendarConnection(ctx context.Context, profileID uuid.UUID, provider entities.Provider) (*entities.CalendarConnection, error) {
	var conn entities.CalendarConnection
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND provider = ?", profileID, provider).
		First(&conn).Error

	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateCalendarTokens stores refreshed tokens
func (r *integrationRepository) UpdateCalendarTokens(ctx context.Context, id uuid.UUID, accessToken string, expiry *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.CalendarConnection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"token_expiry": expiry,
		}).Error
}

// DeleteCalendarConnection removes a profile's connection for a provider
func (r *integrationRepository) DeleteCalendarConnection(ctx context.Context, profileID uuid.UUID, provider entities.Provider) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ? AND provider = ?", profileID, provider).
		Delete(&entities.CalendarConnection{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateState stores a pending OAuth handshake
func (r *integrationRepository) CreateState(ctx context.Context, state *entities.OAuthState) error {
	return r.db.WithContext(ctx).Create(state).Error
}

// ConsumeState deletes and returns the state with the given nonce
func (r *integrationRepository) ConsumeState(ctx context.Context, nonce string) (*entities.OAuthState, error) {
	var states []entities.OAuthState
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("nonce = ?", nonce).
		Delete(&states)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(states) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &states[0], nil
}

// DeleteExpiredStates purges handshakes older than the given time
func (r *integrationRepository) DeleteExpiredStates(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&entities.OAuthState{})
	return result.RowsAffected, result.Error
}
