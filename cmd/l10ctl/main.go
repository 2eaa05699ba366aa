package main

import (
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/johnquangdev/l10-platform/internal/infrastructure/database"
	"github.com/johnquangdev/l10-platform/pkg/config"
)

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "l10ctl",
		Short: "Operate an L10 platform deployment",
		Long: `l10ctl applies database migrations, seeds a development organization
and runs background jobs on demand.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
)

func main() {
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newBriefingsCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// openDB connects to the configured database; callers close it with database.CloseDB
func openDB() (*gorm.DB, error) {
	return database.NewPostgresDB(cfg)
}
