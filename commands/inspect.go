package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aeroresponse/flightreview/internal/inspection"
	"github.com/aeroresponse/flightreview/internal/review"
	"github.com/aeroresponse/flightreview/internal/util"
)

var (
	// Inspect command flags
	inspectStatus string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Manage post-flight inspection sessions",
	Long: `Tracks hangar inspections for reviewed flights.

Each inspection moves through pending -> in-progress -> completed. Completing
an inspection archives the flight's derived KPIs so review evidence survives
log rotation.`,
}

var inspectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inspection sessions",
	RunE:  runInspectList,
}

var inspectOpenCmd = &cobra.Command{
	Use:   "open <flight-id>",
	Short: "Open a new inspection for a flight",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectOpen,
}

var inspectAdvanceCmd = &cobra.Command{
	Use:   "advance <session-id>",
	Short: "Move an inspection to its next status",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectAdvance,
}

var inspectCompleteCmd = &cobra.Command{
	Use:   "complete <session-id>",
	Short: "Complete an inspection and archive the flight KPIs",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectComplete,
}

var inspectNoteCmd = &cobra.Command{
	Use:   "note <session-id> <text>",
	Short: "Attach notes to an inspection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runInspectNote,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.AddCommand(inspectListCmd, inspectOpenCmd, inspectAdvanceCmd,
		inspectCompleteCmd, inspectNoteCmd)

	inspectListCmd.Flags().StringVar(&inspectStatus, "status", "",
		"Filter by status (pending, in-progress, completed)")
}

func openInspectionStore() (*inspection.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	initRuntime()

	dbPath := expandPath(cfg.Storage.InspectionDB)
	if err := ensureDir(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("failed to create inspection directory: %w", err)
	}
	return inspection.NewStore(dbPath), nil
}

func runInspectList(cmd *cobra.Command, args []string) error {
	store, err := openInspectionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions(context.Background(), inspectStatus)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No inspection sessions found.")
		return nil
	}

	fmt.Printf("%-6s %-22s %-12s %-10s %s\n", "ID", "Flight", "Status", "Elapsed", "Notes")
	fmt.Println(strings.Repeat("-", 70))
	now := time.Now()
	for _, s := range sessions {
		elapsed := "-"
		if d := s.Elapsed(now); d > 0 {
			elapsed = d.Round(time.Minute).String()
		}
		notes := s.Notes
		if len(notes) > 30 {
			notes = notes[:27] + "..."
		}
		fmt.Printf("%-6d %-22s %-12s %-10s %s\n", s.ID, s.FlightID, s.Status, elapsed, notes)
	}
	return nil
}

func runInspectOpen(cmd *cobra.Command, args []string) error {
	store, err := openInspectionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.CreateSession(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Opened inspection %d for flight %s (pending)\n", id, args[0])
	return nil
}

func runInspectAdvance(cmd *cobra.Command, args []string) error {
	store, err := openInspectionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}

	session, err := store.Advance(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Inspection %d is now %s\n", session.ID, session.Status)
	return nil
}

func runInspectComplete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openInspectionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := store.Session(ctx, id)
	if err != nil {
		return err
	}

	for session.Status != inspection.StatusCompleted {
		if session, err = store.Advance(ctx, id); err != nil {
			return err
		}
	}
	fmt.Printf("Inspection %d completed\n", session.ID)

	// Archive the flight's KPIs while the log file is still around.
	logPath := filepath.Join(expandPath(cfg.Storage.DataDirectory), session.FlightID+".json")
	if _, statErr := os.Stat(logPath); statErr != nil {
		util.LogWarn("Flight log not found, skipping KPI archive: " + logPath)
		return nil
	}

	r, err := review.New(&review.Config{
		DataDir:     expandPath(cfg.Storage.DataDirectory),
		CacheDir:    expandPath(cfg.Storage.CacheDirectory),
		Timezone:    timezone,
		Concurrency: runtime.NumCPU(),
	})
	if err != nil {
		return err
	}
	summary, err := r.ReviewFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to derive flight KPIs: %w", err)
	}
	if err := store.ArchiveFlight(ctx, summary); err != nil {
		return err
	}

	fmt.Printf("Archived KPIs for flight %s\n", session.FlightID)
	return nil
}

func runInspectNote(cmd *cobra.Command, args []string) error {
	store, err := openInspectionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}

	notes := strings.Join(args[1:], " ")
	if err := store.SetNotes(context.Background(), id, notes); err != nil {
		return err
	}

	fmt.Printf("Updated notes for inspection %d\n", id)
	return nil
}

func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}
