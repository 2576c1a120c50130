package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/aeroresponse/flightreview/internal/application/watch"
)

var (
	// Refresh related flags
	watchRefreshRate int

	// Hangar polling flags
	watchHangarURL    string
	watchPollInterval int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Review incoming flights in real-time",
	Long: `Watches the flight-log directory and keeps a live review on screen.

New or updated flight logs are re-derived as they land, and the optional
hangar endpoint is polled for the active alarm session and drone readiness.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Refresh flags
	watchCmd.Flags().IntVar(&watchRefreshRate, "refresh-rate", 30,
		"Full re-review interval in seconds")

	// Hangar flags
	watchCmd.Flags().StringVar(&watchHangarURL, "hangar-url", "",
		"Hangar status endpoint (overrides config file)")
	watchCmd.Flags().IntVar(&watchPollInterval, "poll-interval", 0,
		"Hangar poll interval in seconds (0 = config default)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	initRuntime()

	if watchRefreshRate < 1 {
		return fmt.Errorf("refresh-rate must be at least 1 second")
	}

	hangarURL := cfg.Hangar.BaseURL
	if watchHangarURL != "" {
		hangarURL = watchHangarURL
	}
	if !cfg.Hangar.Enabled && watchHangarURL == "" {
		hangarURL = ""
	}

	pollInterval := cfg.Hangar.PollInterval
	if watchPollInterval > 0 {
		pollInterval = time.Duration(watchPollInterval) * time.Second
	}

	watchConfig := &watch.Config{
		DataDir:             expandPath(cfg.Storage.DataDirectory),
		CacheDir:            expandPath(cfg.Storage.CacheDirectory),
		Timezone:            timezone,
		Concurrency:         runtime.NumCPU(),
		DataRefreshInterval: time.Duration(watchRefreshRate) * time.Second,
		HangarURL:           hangarURL,
		HangarPollInterval:  pollInterval,
	}

	orchestrator, err := watch.NewOrchestrator(watchConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		<-sigChan
		cancel()
	}()

	return orchestrator.Run(ctx)
}
