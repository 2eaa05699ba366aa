package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/internal/adapter/repository"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/database"
	"github.com/johnquangdev/l10-platform/internal/usecase/briefing"
	pkgai "github.com/johnquangdev/l10-platform/pkg/ai"
	"github.com/johnquangdev/l10-platform/pkg/jobcontext"
)

func newBriefingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefings",
		Short: "Manage daily AI briefings",
	}

	var date string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate today's briefing for every onboarded profile",
		Long: `Generate runs the same job as the scheduler. Profiles that already
have a briefing for the date are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
				day = parsed
			}
			return runGenerate(cmd, day)
		},
	}
	generate.Flags().StringVar(&date, "date", "", "briefing date as YYYY-MM-DD (defaults to today, UTC)")

	cmd.AddCommand(generate)
	return cmd
}

func runGenerate(cmd *cobra.Command, day time.Time) error {
	chat := pkgai.NewChatClient(&cfg.LLM)
	if !chat.Configured() {
		return fmt.Errorf("LLM_API_KEY is not set")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc := briefing.NewBriefingService(briefing.Repositories{
		Briefings: repository.NewBriefingRepository(db),
		Insights:  repository.NewInsightRepository(db),
		Profiles:  repository.NewProfileRepository(db),
		Metrics:   repository.NewMetricRepository(db),
		Rocks:     repository.NewRockRepository(db),
		Issues:    repository.NewIssueRepository(db),
		Todos:     repository.NewTodoRepository(db),
		Meetings:  repository.NewMeetingRepository(db),
	}, chat, logger, briefing.WithRateInterval(cfg.Scheduler.LLMRate))

	ctx, cancel := jobcontext.JobBegin(cmd.Context(), "briefing_pregenerate", time.Hour)
	defer cancel()

	var stats *briefing.PregenerateStats
	err = jobcontext.JobEnd(ctx, func(ctx context.Context) error {
		var runErr error
		stats, runErr = svc.PregenerateAll(ctx, day)
		return runErr
	})
	if err != nil {
		return err
	}

	color.Green("✅ Briefings for %s: %d generated, %d skipped", day.Format("2006-01-02"), stats.Generated, stats.Skipped)
	if stats.Failed > 0 {
		color.Yellow("⚠️  %d of %d profiles failed; see the log above", stats.Failed, stats.Profiles)
	}
	return nil
}
