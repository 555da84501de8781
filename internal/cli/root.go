package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training-service",
		Short: "Staff training service: quizzes, attempts, progress and lessons",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The config loader reads the overlay path from the environment
			if configPath != "" {
				os.Setenv("CONFIG_PATH", configPath)
			}
			if port != "" {
				os.Setenv("PORT", port)
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	cmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config overlay")
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	return cmd
}
