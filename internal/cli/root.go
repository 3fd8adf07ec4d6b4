// Package cli wires the prayer-feed command tree. One subcommand per
// timetable variant: week (rolling window), year (full calendar year),
// and ramadan (Hijri month 9 window).
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/london-prayer-feed/internal/api"
	"github.com/smokyabdulrahman/london-prayer-feed/internal/config"
)

// Global flags shared across all subcommands.
var (
	FlagOutput    string
	FlagEnvFile   string
	FlagAPIKey    string
	FlagEndpoints []string
	FlagAttempts  int
	FlagVerbose   bool
)

// NewRootCmd creates the root command for the prayer-feed CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-feed",
		Short:   "London prayer timetable JSON generator",
		Long:    "Generates London prayer timetable JSON files from the London Unified Prayer Times API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			return config.LoadEnvFile(FlagEnvFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&FlagOutput, "output", "o", "", "Output file path (default depends on subcommand)")
	pf.StringVar(&FlagEnvFile, "env-file", "", "Path to .env file (default: ./.env)")
	pf.StringVar(&FlagAPIKey, "api-key", "", "API key (overrides "+config.APIKeyEnv+")")
	pf.StringSliceVar(&FlagEndpoints, "endpoint", nil, "API endpoint URL (repeatable, overrides the defaults)")
	pf.IntVar(&FlagAttempts, "attempts", 0, "Network attempts per endpoint (default 3)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Enable debug logging")

	// Register subcommands.
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newYearCmd())
	rootCmd.AddCommand(newRamadanCmd())

	return rootCmd
}

func setupLogging() {
	level := zerolog.InfoLevel
	if FlagVerbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// newFetchClient builds the API client from the shared flags.
func newFetchClient(key string) *api.Client {
	c := api.NewClient(key)
	if len(FlagEndpoints) > 0 {
		c.Endpoints = FlagEndpoints
	}
	if FlagAttempts > 0 {
		c.MaxAttempts = FlagAttempts
	}
	return c
}

// resolveKey applies the credential priority: --api-key flag, then the
// environment. When required is false a blank environment falls back to
// the provider's public default key.
func resolveKey(required bool) (string, error) {
	if v := strings.TrimSpace(FlagAPIKey); v != "" {
		return v, nil
	}
	if required {
		return config.RequireAPIKey()
	}
	return config.APIKey(), nil
}

// outputPath returns the --output override or the subcommand default.
func outputPath(def string) string {
	if FlagOutput != "" {
		return FlagOutput
	}
	return def
}
