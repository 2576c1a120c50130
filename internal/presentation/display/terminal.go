package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/data/aggregator"
	"github.com/aeroresponse/flightreview/internal/hangar"
	"github.com/aeroresponse/flightreview/internal/util"
)

// WatchState is everything the live view renders on one frame.
type WatchState struct {
	Flights   []*flight.Summary
	Session   *hangar.SessionState
	Hangar    *hangar.HangarState
	HangarErr error

	LastEvent   string
	Paused      bool
	ShowHelp    bool
	StatusMsg   string
	SortColumn  string
	RefreshedAt int64
}

// TerminalDisplay owns the alternate screen buffer for the live watch
// view and redraws it on every state change.
type TerminalDisplay struct {
	inAlternateScreen bool
	isFirstRender     bool
	lastDraw          int64
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{isFirstRender: true}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Print("\033[?1049h")
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.ClearScrollback)
		fmt.Print(util.HideCursor)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.ShowCursor)
		fmt.Print("\033[?1049l")
		td.inAlternateScreen = false
	}
}

func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
	}
}

// Render draws one frame of the watch view.
func (td *TerminalDisplay) Render(state *WatchState) {
	if td.isFirstRender {
		td.ClearScreen()
		td.isFirstRender = false
	} else {
		fmt.Print(util.MoveCursorHome)
	}

	if state.ShowHelp {
		td.renderHelp()
		fmt.Print("\033[J")
		return
	}

	fmt.Println(util.FormatHeaderTitle("Flight Review - Live"))
	fmt.Print(util.ClearLineFromCursor)
	fmt.Println()

	td.renderHangarLine(state)
	td.renderSessionLine(state)
	fmt.Print(util.ClearLineFromCursor)
	fmt.Println()

	td.renderFlightTable(state)

	if stats := aggregator.Aggregate(state.Flights); len(stats.Subtypes) > 0 {
		fmt.Print(util.ClearLineFromCursor)
		fmt.Println()
		for _, st := range stats.Subtypes {
			line := fmt.Sprintf("  %-9s %3d flights", st.Subtype, st.Flights)
			if st.WithDelivery > 0 {
				line += fmt.Sprintf("   mean delivery %s", util.FormatSeconds(st.DeliveryMean))
			}
			fmt.Print(util.ClearLine)
			fmt.Println(line)
		}
	}

	fmt.Print(util.ClearLineFromCursor)
	fmt.Println()
	td.renderFooter(state)

	// Clear anything left over from a taller previous frame.
	fmt.Print("\033[J")

	td.lastDraw = time.Now().Unix()
}

func (td *TerminalDisplay) renderHangarLine(state *WatchState) {
	fmt.Print(util.ClearLine)
	switch {
	case state.HangarErr != nil:
		fmt.Printf("Hangar: unreachable (%v)\n", state.HangarErr)
	case state.Hangar == nil:
		fmt.Println("Hangar: waiting for first poll...")
	default:
		doors := "closed"
		if state.Hangar.DoorsOpen {
			doors = "OPEN"
		}
		ready := "not ready"
		if state.Hangar.DroneReady {
			ready = "ready"
		}
		fmt.Printf("Hangar %s: doors %s, drone %s, charge %d%%\n",
			state.Hangar.HangarID, doors, ready, state.Hangar.ChargePct)
	}
}

func (td *TerminalDisplay) renderSessionLine(state *WatchState) {
	fmt.Print(util.ClearLine)
	if state.Session == nil || state.Session.SessionID == "" {
		fmt.Println("Session: none active")
		return
	}
	line := fmt.Sprintf("Session %s: %s", state.Session.SessionID, state.Session.Status)
	if state.Session.AlarmSubtype != "" {
		line += fmt.Sprintf(" (%s)", util.NormalizeSubtype(state.Session.AlarmSubtype))
	}
	fmt.Println(line)
}

func (td *TerminalDisplay) renderFlightTable(state *WatchState) {
	fmt.Print(util.ClearLine)
	fmt.Printf("Recent flights (%d reviewed, sorted by %s):\n", len(state.Flights), state.SortColumn)

	fmt.Print(util.ClearLine)
	fmt.Printf("  %s %s %s %s %s\n",
		sharedSizer.PadString("Flight", 22, true),
		sharedSizer.PadString("Class", 9, true),
		sharedSizer.PadString("Takeoff", 9, false),
		sharedSizer.PadString("Delivery", 9, false),
		sharedSizer.PadString("Dist(m)", 8, false))

	rows := state.Flights
	if len(rows) > 15 {
		rows = rows[:15]
	}
	for _, s := range rows {
		fmt.Print(util.ClearLine)
		fmt.Printf("  %s %s %s %s %s\n",
			sharedSizer.PadString(s.FlightID, 22, true),
			sharedSizer.PadString(s.Class, 9, true),
			sharedSizer.PadString(util.FormatSeconds(s.KPIs.AlarmToTakeoff), 9, false),
			sharedSizer.PadString(util.FormatSeconds(s.KPIs.CalibratedDeliveryTime), 9, false),
			sharedSizer.PadString(fmt.Sprintf("%.0f", s.OutDistanceM), 8, false))
	}
	if len(rows) == 0 {
		fmt.Print(util.ClearLine)
		fmt.Println("  (no flight logs yet)")
	}
}

func (td *TerminalDisplay) renderFooter(state *WatchState) {
	fmt.Print(util.ClearLine)
	parts := []string{}
	if state.Paused {
		parts = append(parts, "PAUSED")
	}
	if state.LastEvent != "" {
		parts = append(parts, fmt.Sprintf("last event: %s", state.LastEvent))
	}
	if state.StatusMsg != "" {
		parts = append(parts, state.StatusMsg)
	}
	if state.RefreshedAt > 0 {
		parts = append(parts, fmt.Sprintf("refreshed %s", time.Unix(state.RefreshedAt, 0).Format("15:04:05")))
	}
	parts = append(parts, "q quit | p pause | s sort | h help")
	fmt.Println(strings.Join(parts, "  |  "))
}

func (td *TerminalDisplay) renderHelp() {
	fmt.Println("Flight Review Watch - Help")
	fmt.Println(strings.Repeat("═", 60))
	fmt.Println()
	fmt.Println("Keyboard Shortcuts:")
	fmt.Println()
	fmt.Println("  q/Esc/Ctrl+C - Quit")
	fmt.Println("  r            - Re-review all flight logs")
	fmt.Println("  p            - Pause/unpause live updates")
	fmt.Println("  s            - Cycle sort column (time, delivery, distance)")
	fmt.Println("  h            - Toggle this help")
	fmt.Println()
	fmt.Println(strings.Repeat("═", 60))
	fmt.Println("Press 'h' to return...")
}
