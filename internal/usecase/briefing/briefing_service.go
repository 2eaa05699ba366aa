package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/pkg/metrics"
)

const (
	msgSetupInProgress      = "Your account setup is still in progress. Your daily briefing will appear once your profile is ready."
	msgOnboardingIncomplete = "Finish onboarding and join an organization to unlock your daily briefing."
	msgNotConfigured        = "AI briefings are not configured for this workspace. Here are your open alerts instead."
	msgUnavailable          = "Your briefing could not be generated right now. Here are your open alerts instead."
)

var _ Service = (*BriefingService)(nil)

// BriefingService produces one AI briefing per profile per day
type BriefingService struct {
	repos      Repositories
	summarizer Summarizer
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a BriefingService
type Option func(*BriefingService)

// WithRateInterval spaces summarizer calls made by PregenerateAll
func WithRateInterval(every time.Duration) Option {
	return func(s *BriefingService) {
		if every > 0 {
			s.limiter = rate.NewLimiter(rate.Every(every), 1)
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *BriefingService) { s.now = now }
}

// NewBriefingService creates a new briefing service
func NewBriefingService(repos Repositories, summarizer Summarizer, logger *zap.Logger, opts ...Option) *BriefingService {
	s := &BriefingService{
		repos:      repos,
		summarizer: summarizer,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns today's briefing. Missing profile, organization or API key are
// reported through Result.Status rather than as errors.
func (s *BriefingService) Get(ctx context.Context, profile *entities.Profile, regenerate bool) (*Result, error) {
	if profile == nil {
		return &Result{Status: StatusSetupInProgress, Content: msgSetupInProgress, Highlights: []string{}}, nil
	}
	if !profile.HasOrganization() {
		return &Result{Status: StatusOnboardingIncomplete, Content: msgOnboardingIncomplete, Highlights: []string{}}, nil
	}

	now := s.now()
	date := entities.BriefingDate(now)

	if !regenerate {
		cached, err := s.cached(ctx, profile, date)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingCached).Inc()
			result := fromEntity(cached)
			result.IsCached = true
			return result, nil
		}
	}

	return s.generate(ctx, profile, now, date)
}

func (s *BriefingService) cached(ctx context.Context, profile *entities.Profile, date time.Time) (*entities.Briefing, error) {
	b, err := s.repos.Briefings.FindByProfileAndDate(ctx, profile.ID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load briefing: %w", err)
	}
	return b, nil
}

// generate gathers context as of now, summarizes it and stores it under day.
// Fallback results are never stored.
func (s *BriefingService) generate(ctx context.Context, profile *entities.Profile, now, day time.Time) (*Result, error) {
	bc, err := s.gather(ctx, profile, now)
	if err != nil {
		metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingFailed).Inc()
		return nil, err
	}

	if s.summarizer == nil || !s.summarizer.Configured() {
		metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingFallback).Inc()
		return &Result{Status: StatusNotConfigured, Content: msgNotConfigured, Highlights: fallbackHighlights(bc.Alerts)}, nil
	}

	sum, err := s.summarize(ctx, bc)
	if err != nil {
		s.logger.Warn("briefing summarizer failed",
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err),
		)
		metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingFallback).Inc()
		return &Result{Status: StatusUnavailable, Content: msgUnavailable, Highlights: fallbackHighlights(bc.Alerts)}, nil
	}

	briefing := &entities.Briefing{
		ProfileID:      profile.ID,
		OrganizationID: *profile.OrganizationID,
		Date:           day,
		Content:        sum.Content,
		Highlights:     datatypes.JSONSlice[string](sum.Highlights),
		Model:          s.summarizer.Model(),
		GeneratedAt:    now.UTC(),
	}
	if err := s.repos.Briefings.Upsert(ctx, briefing); err != nil {
		metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingFailed).Inc()
		return nil, fmt.Errorf("failed to store briefing: %w", err)
	}

	metrics.BriefingOutcomes.WithLabelValues(metrics.BriefingGenerated).Inc()
	return fromEntity(briefing), nil
}

func (s *BriefingService) summarize(ctx context.Context, bc *Context) (*summary, error) {
	payload, err := json.Marshal(bc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode briefing context: %w", err)
	}

	raw, err := s.summarizer.CompleteJSON(ctx, systemPrompt, string(payload))
	if err != nil {
		return nil, err
	}
	return parseSummary(raw)
}

// PregenerateAll generates briefings for every onboarded profile missing one for date.
// Summarizer calls are throttled by the service's rate limiter.
func (s *BriefingService) PregenerateAll(ctx context.Context, date time.Time) (*PregenerateStats, error) {
	if s.summarizer == nil || !s.summarizer.Configured() {
		s.logger.Info("skipping briefing pre-generation, summarizer not configured")
		return &PregenerateStats{}, nil
	}

	profiles, err := s.repos.Profiles.ListOnboarded(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	stats := &PregenerateStats{Profiles: len(profiles)}
	day := entities.BriefingDate(date)

	for _, profile := range profiles {
		existing, err := s.cached(ctx, profile, day)
		if err != nil {
			return stats, err
		}
		if existing != nil {
			stats.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		result, err := s.generate(ctx, profile, s.now(), day)
		if err != nil {
			stats.Failed++
			s.logger.Warn("failed to pre-generate briefing",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if result.Status != StatusReady {
			stats.Failed++
			continue
		}
		stats.Generated++
	}

	s.logger.Info("briefing pre-generation finished",
		zap.Int("profiles", stats.Profiles),
		zap.Int("generated", stats.Generated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func fromEntity(b *entities.Briefing) *Result {
	date := b.Date
	generatedAt := b.GeneratedAt
	highlights := []string(b.Highlights)
	if highlights == nil {
		highlights = []string{}
	}
	return &Result{
		Status:      StatusReady,
		Content:     b.Content,
		Highlights:  highlights,
		Date:        &date,
		Model:       b.Model,
		GeneratedAt: &generatedAt,
	}
}
