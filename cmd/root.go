package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sheetcoach/internal/config"
	"github.com/abhisek/sheetcoach/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sheetcoach",
	Short: "Excel mock interview in the terminal",
	Long:  "Sheetcoach runs a timed Excel mock interview against a remote interview service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides SHEETCOACH_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SHEETCOACH_DB env var)")
	rootCmd.PersistentFlags().String("api-base", "", "Interview service base URL (overrides SHEETCOACH_API_BASE env var)")
	rootCmd.Flags().String("email", "", "Candidate email to pre-fill")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("api-base"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if f := cmd.Flags().Lookup("email"); f != nil && f.Changed {
		cfg.Interview.CandidateEmail = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path from config (which already
// includes --db and SHEETCOACH_DB), falling back to the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
