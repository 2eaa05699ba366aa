package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/cache"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/internal/usecase/meeting"
)

const (
	upcomingEventsLimit = 10
	primaryCalendar     = "primary"
)

var (
	_ Service                   = (*IntegrationService)(nil)
	_ meeting.Announcer         = (*IntegrationService)(nil)
	_ meeting.CalendarPublisher = (*IntegrationService)(nil)
)

// Repositories groups the stores integrations read
type Repositories struct {
	Integrations repositories.IntegrationRepository
	Rocks        repositories.RockRepository
	Metrics      repositories.MetricRepository
	Issues       repositories.IssueRepository
}

// Providers groups the external clients
type Providers struct {
	States   StateIssuer
	Slack    SlackInstaller
	Bot      SlackBot
	Google   GoogleAuthorizer
	Calendar Calendar
	Tokens   Sealer
}

// IntegrationService connects organizations to Slack and profiles to Google Calendar
type IntegrationService struct {
	repos     Repositories
	providers Providers
	dedupe    cache.Store
	logger    *zap.Logger
	now       func() time.Time
}

// NewIntegrationService creates a new integration service
func NewIntegrationService(repos Repositories, providers Providers, dedupe cache.Store, logger *zap.Logger) *IntegrationService {
	return &IntegrationService{
		repos:     repos,
		providers: providers,
		dedupe:    dedupe,
		logger:    logger,
		now:       time.Now,
	}
}

// AuthURL returns the provider authorization URL carrying a fresh state
func (s *IntegrationService) AuthURL(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) (string, error) {
	var authURL func(string) string
	switch provider {
	case entities.ProviderSlack:
		if !s.providers.Slack.Configured() {
			return "", usecaseErrors.ErrProviderNotConfigured
		}
		authURL = s.providers.Slack.GetAuthURL
	case entities.ProviderGoogleCalendar:
		if !s.providers.Google.Configured() {
			return "", usecaseErrors.ErrProviderNotConfigured
		}
		authURL = s.providers.Google.GetAuthURL
	default:
		return "", usecaseErrors.ErrUnsupportedProvider
	}

	state, err := s.providers.States.GenerateState(ctx, provider, profileID, orgID)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return authURL(state), nil
}

// CompleteSlack exchanges the install code and stores the encrypted bot token
func (s *IntegrationService) CompleteSlack(ctx context.Context, code, state string) (*entities.SlackWorkspace, error) {
	pending, err := s.providers.States.ValidateState(ctx, entities.ProviderSlack, state)
	if err != nil {
		return nil, usecaseErrors.ErrOAuthStateInvalid
	}

	install, err := s.providers.Slack.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("Slack code exchange failed", zap.Error(err))
		return nil, usecaseErrors.ErrOAuthExchangeFailed
	}

	token, err := s.providers.Tokens.Seal(install.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt bot token: %w", err)
	}

	ws := &entities.SlackWorkspace{
		ID:             uuid.New(),
		OrganizationID: pending.OrganizationID,
		TeamID:         install.TeamID,
		TeamName:       install.TeamName,
		BotUserID:      install.BotUserID,
		BotToken:       token,
		InstalledBy:    &pending.ProfileID,
		IsActive:       true,
	}
	if install.ChannelID != "" {
		ws.DefaultChannelID = &install.ChannelID
	}
	if err := s.repos.Integrations.UpsertSlackWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save slack workspace: %w", err)
	}

	s.logger.Info("Slack workspace connected",
		zap.String("organization_id", ws.OrganizationID.String()),
		zap.String("team_id", ws.TeamID),
	)
	return ws, nil
}

// CompleteGoogle exchanges the code for offline tokens and stores them encrypted
func (s *IntegrationService) CompleteGoogle(ctx context.Context, code, state string) (*entities.CalendarConnection, error) {
	pending, err := s.providers.States.ValidateState(ctx, entities.ProviderGoogleCalendar, state)
	if err != nil {
		return nil, usecaseErrors.ErrOAuthStateInvalid
	}

	token, err := s.providers.Google.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("Google code exchange failed", zap.Error(err))
		return nil, usecaseErrors.ErrOAuthExchangeFailed
	}
	email, err := s.providers.Google.AccountEmail(ctx, token)
	if err != nil {
		s.logger.Warn("Google account lookup failed", zap.Error(err))
		return nil, usecaseErrors.ErrOAuthExchangeFailed
	}

	access, err := s.providers.Tokens.Seal(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	conn := &entities.CalendarConnection{
		ID:             uuid.New(),
		OrganizationID: pending.OrganizationID,
		ProfileID:      pending.ProfileID,
		Provider:       entities.ProviderGoogleCalendar,
		Email:          email,
		AccessToken:    access,
		CalendarID:     primaryCalendar,
	}
	if token.RefreshToken != "" {
		refresh, err := s.providers.Tokens.Seal(token.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		conn.RefreshToken = &refresh
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		conn.TokenExpiry = &expiry
	}

	if err := s.repos.Integrations.UpsertCalendarConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to save calendar connection: %w", err)
	}

	s.logger.Info("Google Calendar connected", zap.String("profile_id", conn.ProfileID.String()))
	return conn, nil
}

// UpcomingEvents lists the next events on the profile's connected calendar
func (s *IntegrationService) UpcomingEvents(ctx context.Context, profileID uuid.UUID) ([]gcal.Event, error) {
	conn, err := s.calendarConnection(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ts, err := s.tokenSource(ctx, conn)
	if err != nil {
		return nil, err
	}

	events, err := s.providers.Calendar.ListUpcoming(ctx, ts, conn.CalendarID, s.now(), upcomingEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}

func (s *IntegrationService) calendarConnection(ctx context.Context, profileID uuid.UUID) (*entities.CalendarConnection, error) {
	conn, err := s.repos.Integrations.FindCalendarConnection(ctx, profileID, entities.ProviderGoogleCalendar)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecaseErrors.ErrIntegrationNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar connection: %w", err)
	}
	return conn, nil
}

// ListConnections reports the Slack workspace of the organization and the caller's calendar
func (s *IntegrationService) ListConnections(ctx context.Context, profileID, orgID uuid.UUID) ([]Connection, error) {
	slackConn := Connection{Provider: entities.ProviderSlack}
	ws, err := s.repos.Integrations.FindSlackWorkspace(ctx, orgID)
	switch {
	case err == nil:
		slackConn.Connected = ws.IsActive
		slackConn.Account = ws.TeamName
		slackConn.ConnectedAt = &ws.CreatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get slack workspace: %w", err)
	}

	calendarConn := Connection{Provider: entities.ProviderGoogleCalendar}
	conn, err := s.repos.Integrations.FindCalendarConnection(ctx, profileID, entities.ProviderGoogleCalendar)
	switch {
	case err == nil:
		calendarConn.Connected = true
		calendarConn.Account = conn.Email
		calendarConn.ConnectedAt = &conn.CreatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get calendar connection: %w", err)
	}

	return []Connection{slackConn, calendarConn}, nil
}

// Disconnect removes a connection. Slack is per organization, calendars per profile.
func (s *IntegrationService) Disconnect(ctx context.Context, provider entities.Provider, profileID, orgID uuid.UUID) error {
	var err error
	switch provider {
	case entities.ProviderSlack:
		err = s.repos.Integrations.DeleteSlackWorkspace(ctx, orgID)
	case entities.ProviderGoogleCalendar:
		err = s.repos.Integrations.DeleteCalendarConnection(ctx, profileID, provider)
	default:
		return usecaseErrors.ErrUnsupportedProvider
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecaseErrors.ErrIntegrationNotConnected
	}
	if err != nil {
		return fmt.Errorf("failed to disconnect %s: %w", provider, err)
	}

	s.logger.Info("Integration disconnected",
		zap.String("provider", string(provider)),
		zap.String("organization_id", orgID.String()),
	)
	return nil
}

// PurgeExpiredStates deletes OAuth states past their deadline
func (s *IntegrationService) PurgeExpiredStates(ctx context.Context) (int64, error) {
	n, err := s.repos.Integrations.DeleteExpiredStates(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge oauth states: %w", err)
	}
	return n, nil
}
