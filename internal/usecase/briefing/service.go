package briefing

import (
	"context"
	"time"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
)

// Status tells the client how the briefing was produced
type Status string

const (
	StatusReady                Status = "ready"
	StatusSetupInProgress      Status = "setup_in_progress"
	StatusOnboardingIncomplete Status = "onboarding_incomplete"
	StatusNotConfigured        Status = "not_configured"
	StatusUnavailable          Status = "unavailable"
)

// Service defines the interface for the daily briefing use case
type Service interface {
	// Get returns today's briefing for profile, generating it when missing or when regenerate is set
	Get(ctx context.Context, profile *entities.Profile, regenerate bool) (*Result, error)

	// PregenerateAll generates the briefing of date for every onboarded profile that lacks one
	PregenerateAll(ctx context.Context, date time.Time) (*PregenerateStats, error)
}

// Result is a briefing or the explanation of why none could be produced
type Result struct {
	Status      Status     `json:"status"`
	Content     string     `json:"content"`
	Highlights  []string   `json:"highlights"`
	Date        *time.Time `json:"date,omitempty"`
	Model       string     `json:"model,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	IsCached    bool       `json:"is_cached"`
}

// PregenerateStats summarizes a batch run
type PregenerateStats struct {
	Profiles  int `json:"profiles"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Summarizer turns the gathered context into text. *ai.ChatClient implements it.
type Summarizer interface {
	Configured() bool
	Model() string
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}
