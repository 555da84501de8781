package cli

import (
	"github.com/SAP-F-2025/training-service/internal/config"
	"github.com/SAP-F-2025/training-service/pkg"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			if err := pkg.MigrateDatabase(db); err != nil {
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}
}
