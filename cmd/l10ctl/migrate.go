package main

import (
	"fmt"

	"github.com/fatih/color"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/l10-platform/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrate.Up, steps)
		},
	}
	up.Flags().IntVar(&steps, "steps", 0, "apply at most this many migrations (0 applies all)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrate.Down, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "roll back this many migrations (0 rolls back all)")

	status := &cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func runMigrate(dir migrate.MigrationDirection, steps int) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, dir, steps)
	if err != nil {
		return err
	}

	verb := "Applied"
	if dir == migrate.Down {
		verb = "Rolled back"
	}
	color.Green("✅ %s %d migration(s)", verb, n)
	return nil
}

func runStatus() error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	statuses, err := database.Status(db)
	if err != nil {
		return err
	}

	applied := color.New(color.FgGreen)
	pending := color.New(color.FgYellow)
	for _, st := range statuses {
		if st.AppliedAt != nil {
			fmt.Printf("%-40s %s\n", st.ID, applied.Sprintf("applied %s", st.AppliedAt.UTC().Format("2006-01-02 15:04:05")))
			continue
		}
		fmt.Printf("%-40s %s\n", st.ID, pending.Sprint("pending"))
	}
	return nil
}
