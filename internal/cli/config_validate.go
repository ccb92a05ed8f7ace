package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for syntax and semantic correctness.

This includes:
- schema_version compatibility
- storage backend selection and its settings
- engagement policy ranges
- the catalog file, when one is configured`,
		Example: `  # Validate current configuration
  ecoshopper config validate

  # Validate and show detailed information
  ecoshopper config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := configFrom(cmd)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Catalog.Path != "" {
		if _, err := loadCatalog(cfg); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Schema version: %s\n", cfg.SchemaVersion)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Storage backend: %s\n", cfg.Storage.Backend)
	if path, err := cfg.ResolvedStoragePath(); err == nil &&
		(cfg.Storage.Backend == config.BackendFile || cfg.Storage.Backend == config.BackendSQLite) {
		cmd.Printf("  Storage path: %s\n", path)
	}
	if cfg.Catalog.Path != "" {
		cmd.Printf("  Catalog: %s\n", cfg.Catalog.Path)
	} else {
		cmd.Println("  Catalog: built-in")
	}
	cmd.Printf("  Engagement: score > %d earns %d points and %.1f kg CO2\n",
		cfg.Engagement.Threshold, cfg.Engagement.Points, cfg.Engagement.CO2PerView)
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
}
