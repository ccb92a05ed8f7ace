package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Global flag names.
const (
	flagDebug   = "debug"
	flagConfig  = "config"
	flagStorage = "storage"
	flagCatalog = "catalog"
)

// NewRootCmd creates the root command for the ecoshopper CLI. It loads the
// configuration, wires logging and registers every subcommand. Session
// storage is opened lazily by the commands that need it.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "ecoshopper",
		Short:         "Sustainable shopping assistant",
		Long:          "EcoShopper: score products for sustainability, track green points and keep an eco-aware cart",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			result := setupLogging(cmd, cfg)
			logResult = &result
			cmd.SetContext(withAppHolder(cmd.Context(), cfg))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			closeErr := closeApp(cmd)
			if err := cleanupLogging(logResult); err != nil {
				return err
			}
			return closeErr
		},
	}

	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging")
	cmd.PersistentFlags().String(flagConfig, "", "config file (default ~/.ecoshopper/config.yaml)")
	cmd.PersistentFlags().String(flagStorage, "", "session storage backend: memory, file, sqlite or redis")
	cmd.PersistentFlags().String(flagCatalog, "", "product catalog file (JSON or YAML)")

	cmd.AddCommand(
		NewScoreCmd(),
		newCatalogCmd(),
		NewViewCmd(),
		newCartCmd(),
		NewStatsCmd(),
		newThemeCmd(),
		newPreferenceCmd(),
		newFeedbackCmd(),
		newConfigCmd(),
		NewBrowseCmd(),
		NewServeCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Score free text
  ecoshopper score --name "Bamboo Toothbrush" --description "biodegradable and plastic-free"

  # List the catalog, greenest first
  ecoshopper catalog list --sort score:desc

  # Open a product and earn green points
  ecoshopper view 1

  # Add to cart and review it
  ecoshopper cart add 4
  ecoshopper cart show

  # See your badge and achievements
  ecoshopper stats

  # Browse interactively
  ecoshopper browse

  # Serve the JSON API
  ecoshopper serve --addr 127.0.0.1:8080`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
