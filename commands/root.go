package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aeroresponse/flightreview/internal/config"
	"github.com/aeroresponse/flightreview/internal/review"
	"github.com/aeroresponse/flightreview/internal/util"
)

var (
	// Logging related
	debug bool

	// Config file
	configFile string

	// Data path
	dataDir string

	// Output related
	outputFormat string
	timezone     string

	// Filtering and sorting
	duration string
	sortBy   string
	limit    int
	reset    bool

	rootCmd = &cobra.Command{
		Use:   "flightreview [flags]",
		Short: "Drone flight telemetry review tool",
		Long: `flightreview is a command-line tool for reviewing drone emergency-response flights.

It scans exported flight-log JSON files, derives the per-flight response KPIs
(alarm to takeoff, clearance wait, calibrated delivery time) and the merged
event timeline, and renders reports.

Examples:
  flightreview                                  # Review with default settings
  flightreview --dir /path/to/flight/logs       # Review the specified directory
  flightreview --output json                    # Emit machine-readable output
  flightreview --duration 7d                    # Only flights from the last 7 days
  flightreview --sort-by delivery --limit 10    # Ten slowest deliveries first
  flightreview watch                            # Live review of incoming flights`,
		RunE: runReview,
	}
)

const (
	defaultLogFile    = "~/.flightreview/logs/app.log"
	defaultConfigFile = "~/.flightreview/config.yaml"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "",
		"Flight-log directory path (overrides config file)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile,
		"Config file path")

	// Time filtering
	rootCmd.Flags().StringVarP(&duration, "duration", "d", "",
		"Time duration to look back (e.g., 12h, 7d, 2w, 1m)")

	// Sorting and limiting
	rootCmd.Flags().StringVar(&sortBy, "sort-by", "date",
		"Sort field (date, delivery, subtype)")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Europe/Stockholm, UTC)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before reviewing")
}

func runReview(cmd *cobra.Command, args []string) error {
	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	initRuntime()

	cacheDir := expandPath(cfg.Storage.CacheDirectory)
	if err := ensureDir(cacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	reviewConfig := &review.Config{
		DataDir:      expandPath(cfg.Storage.DataDirectory),
		CacheDir:     cacheDir,
		OutputFormat: outputFormat,
		Timezone:     timezone,
		Duration:     duration,
		SortBy:       sortBy,
		Limit:        limit,
		Concurrency:  runtime.NumCPU(),
	}

	r, err := review.New(reviewConfig)
	if err != nil {
		return err
	}
	return r.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

// loadConfig layers the config file under the command-line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(expandPath(configFile))
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.DataDirectory = dataDir
	}
	if timezone == "Local" && cfg.Settings.Timezone != "" {
		timezone = cfg.Settings.Timezone
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initRuntime sets up the global logger and time provider from the flags.
func initRuntime() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
	util.InitializeTimeProvider(timezone)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
