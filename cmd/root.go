package cmd

import (
	"context"
	"fmt"

	"civic-jharkhand-be/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "civic",
	Short: "Civic issue reporting backend",
	Long: `civic serves the REST API citizens use to report civic issues
and that admins and field workers use to triage and resolve them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var envLoaded bool
		cfg, envLoaded = config.Load()

		var err error
		logger, err = config.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if !envLoaded {
			logger.Debug("no .env file found")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// ExecuteContext runs the root command; ctx is cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
