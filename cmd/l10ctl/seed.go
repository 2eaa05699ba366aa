package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/adapter/repository"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/database"
	"github.com/johnquangdev/l10-platform/internal/usecase/meeting"
	"github.com/johnquangdev/l10-platform/pkg/jwt"
)

const seedSlug = "acme-dev"

var seedUsers = []struct {
	Subject string
	Email   string
	Name    string
	Level   entities.AccessLevel
}{
	{Subject: "seed-alice", Email: "alice@acme.test", Name: "Alice Admin", Level: entities.AccessAdmin},
	{Subject: "seed-bob", Email: "bob@acme.test", Name: "Bob Leader", Level: entities.AccessLeader},
	{Subject: "seed-carol", Email: "carol@acme.test", Name: "Carol Member", Level: entities.AccessMember},
	{Subject: "seed-dan", Email: "dan@acme.test", Name: "Dan Viewer", Level: entities.AccessViewer},
}

func newSeedCmd() *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a development organization and print access tokens",
		Long: `Seed creates the "Acme (dev)" organization with one profile per access
level, a small scorecard, this quarter's rocks and next Monday's L10, then
prints a signed access token for each profile. Running it again only
reissues tokens. Refuses to run in production.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.IsProduction() {
				return errors.New("seed is disabled in production")
			}
			return runSeed(cmd, expiry)
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "lifetime of the printed tokens")
	return cmd
}

func runSeed(cmd *cobra.Command, expiry time.Duration) error {
	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	orgs := repository.NewOrganizationRepository(db)
	org, err := orgs.FindBySlug(ctx, seedSlug)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var profiles []*entities.Profile
		org, profiles, err = createSeedOrg(db)
		if err != nil {
			return err
		}
		color.Green("✅ Created organization %s (%s)", org.Name, org.ID)

		m, err := scheduleSeedMeeting(ctx, db, org, profiles)
		if err != nil {
			return err
		}
		color.Green("✅ Scheduled %q for %s", m.Title, m.ScheduledAt.Format(time.RFC1123))
	case err != nil:
		return fmt.Errorf("failed to look up seed organization: %w", err)
	default:
		color.Yellow("ℹ️  Organization %s already exists; reissuing tokens", org.Slug)
	}

	tokens := jwt.NewManager(cfg.Identity.JWTSecret, cfg.Identity.Issuer, cfg.Identity.Audience)
	name := color.New(color.Bold)
	for _, u := range seedUsers {
		token, err := tokens.GenerateAccessToken(u.Subject, u.Email, expiry)
		if err != nil {
			return fmt.Errorf("failed to sign token for %s: %w", u.Email, err)
		}
		fmt.Printf("%s <%s> %s\n  %s\n\n", name.Sprint(u.Name), u.Email, color.CyanString("[%s]", u.Level), token)
	}
	return nil
}

// createSeedOrg inserts the organization, its profiles, metrics and rocks in one transaction
func createSeedOrg(db *gorm.DB) (*entities.Organization, []*entities.Profile, error) {
	org := &entities.Organization{Name: "Acme (dev)", Slug: seedSlug}
	profiles := make([]*entities.Profile, 0, len(seedUsers))

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		for _, u := range seedUsers {
			subject := u.Subject
			profile := &entities.Profile{
				AuthUserID:     &subject,
				OrganizationID: &org.ID,
				Email:          u.Email,
				FullName:       u.Name,
				AccessLevel:    u.Level,
				IsActive:       true,
			}
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("failed to create profile %s: %w", u.Email, err)
			}
			profiles = append(profiles, profile)
		}
		if err := seedScorecard(tx, org.ID, profiles); err != nil {
			return err
		}
		return seedRocks(tx, org.ID, profiles)
	})
	if err != nil {
		return nil, nil, err
	}
	return org, profiles, nil
}

func seedScorecard(tx *gorm.DB, orgID uuid.UUID, profiles []*entities.Profile) error {
	now := time.Now().UTC()
	scorecard := []struct {
		name   string
		unit   string
		goal   float64
		values []float64
	}{
		{"New qualified leads", "leads", 40, []float64{44, 38, 35}},
		{"Customer NPS", "score", 50, []float64{52, 55, 57}},
		{"Weekly active customers", "customers", 120, []float64{118, 125, 112}},
	}

	for i, row := range scorecard {
		goal, unit := row.goal, row.unit
		metric := &entities.Metric{
			OrganizationID: orgID,
			Name:           row.name,
			OwnerID:        &profiles[i%len(profiles)].ID,
			Goal:           &goal,
			Unit:           &unit,
			Frequency:      entities.FrequencyWeekly,
			IsActive:       true,
		}
		if err := tx.Create(metric).Error; err != nil {
			return fmt.Errorf("failed to create metric %s: %w", row.name, err)
		}
		for week, v := range row.values {
			value := &entities.MetricValue{
				MetricID:   metric.ID,
				Value:      v,
				RecordedAt: now.AddDate(0, 0, -7*(len(row.values)-1-week)),
				RecordedBy: metric.OwnerID,
			}
			if err := tx.Create(value).Error; err != nil {
				return fmt.Errorf("failed to record %s: %w", row.name, err)
			}
		}
	}
	return nil
}

func seedRocks(tx *gorm.DB, orgID uuid.UUID, profiles []*entities.Profile) error {
	quarter := entities.QuarterOf(time.Now().UTC())
	company := &entities.Rock{
		OrganizationID: orgID,
		Title:          "Launch the self-serve onboarding flow",
		Level:          entities.RockLevelCompany,
		Status:         entities.RockStatusOnTrack,
		OwnerID:        &profiles[0].ID,
		Quarter:        quarter,
		Progress:       40,
	}
	if err := tx.Create(company).Error; err != nil {
		return fmt.Errorf("failed to create rock: %w", err)
	}

	individual := &entities.Rock{
		OrganizationID: orgID,
		Title:          "Ship guided setup for the three largest integrations",
		Level:          entities.RockLevelIndividual,
		Status:         entities.RockStatusAtRisk,
		OwnerID:        &profiles[2].ID,
		ParentID:       &company.ID,
		Quarter:        quarter,
		Progress:       15,
	}
	if err := tx.Create(individual).Error; err != nil {
		return fmt.Errorf("failed to create rock: %w", err)
	}
	return nil
}

// scheduleSeedMeeting goes through the meeting service so the L10 gets the standard agenda
func scheduleSeedMeeting(ctx context.Context, db *gorm.DB, org *entities.Organization, profiles []*entities.Profile) (*entities.L10Meeting, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	svc := meeting.NewMeetingService(meeting.Repositories{
		Meetings:  repository.NewMeetingRepository(db),
		Issues:    repository.NewIssueRepository(db),
		Todos:     repository.NewTodoRepository(db),
		Headlines: repository.NewHeadlineRepository(db),
		Rocks:     repository.NewRockRepository(db),
		Metrics:   repository.NewMetricRepository(db),
		Profiles:  repository.NewProfileRepository(db),
	}, logger)

	attendees := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		attendees = append(attendees, p.ID)
	}

	m, err := svc.Create(ctx, meeting.CreateInput{
		OrganizationID: org.ID,
		CreatedBy:      profiles[0].ID,
		Title:          "Leadership L10",
		MeetingType:    entities.MeetingTypeCompany,
		ScheduledAt:    nextMonday(time.Now().UTC()),
		AttendeeIDs:    attendees,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule meeting: %w", err)
	}
	return m, nil
}

// nextMonday returns 09:00 UTC of the first Monday strictly after now
func nextMonday(now time.Time) time.Time {
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)
}
