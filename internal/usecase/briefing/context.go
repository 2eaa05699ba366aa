package briefing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/domain/repositories"
)

const (
	recentUpdatesWindow = 7 * 24 * time.Hour
	recentUpdatesLimit  = 10
	openIssuesLimit     = 20
)

// Context is everything the summarizer sees for one profile
type Context struct {
	Profile          *entities.Profile      `json:"profile"`
	Date             string                 `json:"date"`
	Metrics          []*entities.Metric     `json:"metrics"`
	Rocks            []*entities.Rock       `json:"rocks"`
	OpenIssues       []*entities.Issue      `json:"open_issues"`
	RecentUpdates    []*entities.RockUpdate `json:"recent_updates"`
	Alerts           []*entities.Alert      `json:"alerts"`
	PendingTodos     int64                  `json:"pending_todos"`
	NextMeeting      *entities.L10Meeting   `json:"next_meeting,omitempty"`
	VTO              *entities.VTO          `json:"vto,omitempty"`
	Anomalies        []*entities.Anomaly    `json:"anomalies"`
	UnreadMentions   []*entities.Mention    `json:"unread_mentions"`
	MetricsBelowGoal int                    `json:"metrics_below_goal"`
}

// Repositories groups the stores a briefing reads and writes
type Repositories struct {
	Briefings repositories.BriefingRepository
	Insights  repositories.InsightRepository
	Profiles  repositories.ProfileRepository
	Metrics   repositories.MetricRepository
	Rocks     repositories.RockRepository
	Issues    repositories.IssueRepository
	Todos     repositories.TodoRepository
	Meetings  repositories.MeetingRepository
}

// gather runs the ten context reads concurrently. Any failure aborts the briefing.
func (s *BriefingService) gather(ctx context.Context, profile *entities.Profile, now time.Time) (*Context, error) {
	orgID := *profile.OrganizationID
	bc := &Context{Profile: profile, Date: entities.BriefingDate(now).Format("2006-01-02")}
	open := entities.IssueStatusOpen

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repos.Metrics.ListActive(gctx, orgID)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		ids := make([]uuid.UUID, len(list))
		for i, m := range list {
			ids[i] = m.ID
		}
		latest, err := s.repos.Metrics.LatestValues(gctx, ids)
		if err != nil {
			return fmt.Errorf("metric values: %w", err)
		}
		for _, m := range list {
			m.AttachLatest(latest[m.ID])
			if m.BelowGoal() {
				bc.MetricsBelowGoal++
			}
		}
		bc.Metrics = list
		return nil
	})
	g.Go(func() (err error) {
		bc.Rocks, err = s.repos.Rocks.ListActive(gctx, orgID)
		return label("rocks", err)
	})
	g.Go(func() (err error) {
		bc.OpenIssues, err = s.repos.Issues.Find(gctx, orgID, repositories.IssueFilters{Status: &open, Limit: openIssuesLimit})
		return label("issues", err)
	})
	g.Go(func() (err error) {
		bc.RecentUpdates, err = s.repos.Rocks.ListRecentUpdates(gctx, orgID, now.Add(-recentUpdatesWindow), recentUpdatesLimit)
		return label("recent updates", err)
	})
	g.Go(func() (err error) {
		bc.Alerts, err = s.repos.Insights.ListUnacknowledgedAlerts(gctx, orgID, profile.ID)
		return label("alerts", err)
	})
	g.Go(func() (err error) {
		bc.PendingTodos, err = s.repos.Todos.CountPending(gctx, orgID, profile.ID)
		return label("pending todos", err)
	})
	g.Go(func() error {
		meeting, err := s.repos.Meetings.FindNextScheduled(gctx, orgID, now)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		bc.NextMeeting = meeting
		return label("next meeting", err)
	})
	g.Go(func() error {
		vto, err := s.repos.Insights.FindVTO(gctx, orgID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		bc.VTO = vto
		return label("vto", err)
	})
	g.Go(func() (err error) {
		bc.Anomalies, err = s.repos.Insights.ListUnresolvedAnomalies(gctx, orgID)
		return label("anomalies", err)
	})
	g.Go(func() (err error) {
		bc.UnreadMentions, err = s.repos.Insights.ListUnreadMentions(gctx, profile.ID)
		return label("mentions", err)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather briefing context: %w", err)
	}
	return bc, nil
}

func label(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

// fallbackHighlights lists open alerts in place of generated highlights
func fallbackHighlights(alerts []*entities.Alert) []string {
	if len(alerts) == 0 {
		return []string{"No open alerts"}
	}
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, fmt.Sprintf("[%s] %s", a.Severity, a.Title))
	}
	return out
}
