package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/usecase/briefing"
	"github.com/johnquangdev/l10-platform/pkg/jobcontext"
)

const (
	jobBriefings   = "briefing_pregenerate"
	jobPurgeStates = "oauth_state_purge"
	purgeEvery     = time.Hour
)

// BriefingGenerator pre-generates the daily briefings
type BriefingGenerator interface {
	PregenerateAll(ctx context.Context, date time.Time) (*briefing.PregenerateStats, error)
}

// StatePurger removes expired OAuth handshakes
type StatePurger interface {
	PurgeExpiredStates(ctx context.Context) (int64, error)
}

// Config controls when jobs run
type Config struct {
	// BriefingHour is the UTC hour after which the daily run starts
	BriefingHour int
	// Interval is how often the scheduler wakes up
	Interval   time.Duration
	JobTimeout time.Duration
}

// Scheduler runs the daily briefing job and hourly housekeeping in one goroutine
type Scheduler struct {
	briefings BriefingGenerator
	states    StatePurger
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time

	// prepare lets tests shorten job retries
	prepare func(context.Context) context.Context

	lastBriefingDay time.Time
	lastPurge       time.Time

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a scheduler. states may be nil.
func New(briefings BriefingGenerator, states StatePurger, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Scheduler{
		briefings: briefings,
		states:    states,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		prepare:   func(ctx context.Context) context.Context { return ctx },
	}
}

// Start launches the loop. It returns immediately.
func (s *Scheduler) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.loop(ctx)
	}()
	s.logger.Info("Scheduler started",
		zap.Int("briefing_hour_utc", s.cfg.BriefingHour),
		zap.Duration("interval", s.cfg.Interval),
	)
}

// Stop cancels the loop and waits for the running job to return
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
		s.logger.Info("Scheduler stopped")
	})
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs whatever is due at the current time
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now().UTC()

	if s.states != nil && now.Sub(s.lastPurge) >= purgeEvery {
		s.lastPurge = now
		s.run(ctx, jobPurgeStates, func(jctx context.Context) error {
			n, err := s.states.PurgeExpiredStates(jctx)
			if err == nil && n > 0 {
				s.logger.Info("Purged expired oauth states", zap.Int64("count", n))
			}
			return err
		})
	}

	day := entities.BriefingDate(now)
	if now.Hour() < s.cfg.BriefingHour || !day.After(s.lastBriefingDay) {
		return
	}
	// Marked before running so a failing day is not retried every tick
	s.lastBriefingDay = day
	s.run(ctx, jobBriefings, func(jctx context.Context) error {
		stats, err := s.briefings.PregenerateAll(jctx, day)
		if err != nil {
			return err
		}
		s.logger.Info("Daily briefings generated",
			zap.String("date", day.Format("2006-01-02")),
			zap.Int("profiles", stats.Profiles),
			zap.Int("generated", stats.Generated),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
		)
		return nil
	})
}

func (s *Scheduler) run(ctx context.Context, jobType string, fn func(context.Context) error) {
	jctx, cancel := jobcontext.JobBegin(ctx, jobType, s.cfg.JobTimeout)
	defer cancel()

	if err := jobcontext.JobEnd(s.prepare(jctx), fn); err != nil {
		jobID, _ := jobcontext.GetJobID(jctx)
		s.logger.Error("Scheduled job failed",
			zap.String("job_type", jobType),
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
	}
}
