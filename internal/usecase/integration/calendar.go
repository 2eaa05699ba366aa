package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
)

const meetingLength = 90 * time.Minute

// PublishMeeting creates a calendar event for a scheduled meeting on the creator's calendar.
// It returns an empty ID when the creator has no calendar connected.
func (s *IntegrationService) PublishMeeting(ctx context.Context, m *entities.L10Meeting, attendees []*entities.Profile) (string, error) {
	conn, err := s.calendarConnection(ctx, m.CreatedBy)
	if errors.Is(err, usecaseErrors.ErrIntegrationNotConnected) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	ts, err := s.tokenSource(ctx, conn)
	if err != nil {
		return "", err
	}

	emails := make([]string, 0, len(attendees))
	for _, p := range attendees {
		if p.Email != "" && p.ID != m.CreatedBy {
			emails = append(emails, p.Email)
		}
	}

	eventID, err := s.providers.Calendar.CreateEvent(ctx, ts, conn.CalendarID, gcal.NewEvent{
		Summary:     m.Title,
		Description: "Level 10 meeting: Segue, Scorecard, Rock Review, Headlines, To-Do List, IDS, Conclude.",
		Start:       m.ScheduledAt,
		Duration:    meetingLength,
		Attendees:   emails,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return eventID, nil
}

// tokenSource opens the stored tokens and persists any refreshed access token
func (s *IntegrationService) tokenSource(ctx context.Context, conn *entities.CalendarConnection) (oauth2.TokenSource, error) {
	access, err := s.providers.Tokens.Open(conn.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	token := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	if conn.RefreshToken != nil {
		refresh, err := s.providers.Tokens.Open(*conn.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
		token.RefreshToken = refresh
	}
	if conn.TokenExpiry != nil {
		token.Expiry = *conn.TokenExpiry
	}

	return &persistingSource{
		base:   s.providers.Google.TokenSource(ctx, token),
		last:   access,
		save:   func(t *oauth2.Token) error { return s.saveToken(ctx, conn.ID, t) },
		logger: s.logger,
	}, nil
}

func (s *IntegrationService) saveToken(ctx context.Context, connID uuid.UUID, t *oauth2.Token) error {
	sealed, err := s.providers.Tokens.Seal(t.AccessToken)
	if err != nil {
		return err
	}
	var expiry *time.Time
	if !t.Expiry.IsZero() {
		expiry = &t.Expiry
	}
	return s.repos.Integrations.UpdateCalendarTokens(ctx, connID, sealed, expiry)
}

// persistingSource saves every new access token the base source hands out
type persistingSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	last   string
	save   func(*oauth2.Token) error
	logger *zap.Logger
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	t, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t.AccessToken != p.last {
		p.last = t.AccessToken
		if err := p.save(t); err != nil {
			p.logger.Warn("Failed to persist refreshed calendar token", zap.Error(err))
		}
	}
	return t, nil
}
