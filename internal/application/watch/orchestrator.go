package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aeroresponse/flightreview/internal/core/constants"
	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/data/cache"
	"github.com/aeroresponse/flightreview/internal/hangar"
	"github.com/aeroresponse/flightreview/internal/presentation/display"
	"github.com/aeroresponse/flightreview/internal/presentation/interaction"
	"github.com/aeroresponse/flightreview/internal/review"
	"github.com/aeroresponse/flightreview/internal/util"
	"github.com/aeroresponse/flightreview/internal/watcher"
)

// Orchestrator runs the live watch session: it keeps the reviewed flight
// set current as log files change, polls the hangar endpoint, and drives
// the terminal display.
type Orchestrator struct {
	config   *Config
	reviewer *review.Reviewer
	display  *display.TerminalDisplay
	sorter   *interaction.FlightSorter
	keyboard *interaction.KeyboardReader
	watcher  *watcher.FileWatcher
	poller   *hangar.Poller

	mu       sync.RWMutex
	flights  map[string]*flight.Summary
	paused   bool
	showHelp bool
	lastEvt  string
	status   string
}

func NewOrchestrator(config *Config) (*Orchestrator, error) {
	config.Normalize()

	reviewer, err := review.New(&review.Config{
		DataDir:     config.DataDir,
		CacheDir:    config.CacheDir,
		Timezone:    config.Timezone,
		Concurrency: config.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:   config,
		display:  display.NewTerminalDisplay(),
		sorter:   interaction.NewFlightSorter(),
		flights:  make(map[string]*flight.Summary),
		reviewer: reviewer,
	}

	if config.HangarURL != "" {
		client := hangar.NewClient(config.HangarURL, constants.HangarRequestTimeout)
		o.poller = hangar.NewPoller(client, config.HangarPollInterval)
	}

	return o, nil
}

func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting flight review watch...")

	defer o.Close()

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	if err := o.reloadAll(); err != nil {
		// An empty data directory is fine in watch mode; the file watcher
		// picks up the first flight log when it lands.
		util.LogWarn(fmt.Sprintf("Initial review failed, waiting for flight logs: %v", err))
		o.setStatus("waiting for flight logs")
	}

	fw, err := watcher.NewFileWatcher([]string{o.config.DataDir})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	o.watcher = fw

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if o.poller != nil {
		go o.poller.Run(ctx)
	}

	uiTicker := time.NewTicker(constants.UIRefreshInterval)
	defer uiTicker.Stop()

	dataTicker := time.NewTicker(o.config.DataRefreshInterval)
	defer dataTicker.Stop()

	o.render()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down flight review watch...")
			return nil

		case <-uiTicker.C:
			if !o.isPaused() {
				o.render()
			}

		case <-dataTicker.C:
			if !o.isPaused() {
				if err := o.reloadAll(); err != nil {
					o.setStatus(fmt.Sprintf("refresh failed: %v", err))
				}
			}

		case event := <-o.watcher.Events():
			if !o.isPaused() {
				o.handleFileChange(event)
				o.render()
			}

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(keyEvent) {
				return nil
			}
			o.render()
		}
	}
}

// reloadAll re-runs the full review pipeline and replaces the flight set.
func (o *Orchestrator) reloadAll() error {
	flights, err := o.reviewer.Collect()
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.flights = make(map[string]*flight.Summary, len(flights))
	for _, s := range flights {
		o.flights[s.FlightID] = s
	}
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) handleFileChange(event watcher.FileEvent) {
	flightID := cache.FlightID(event.Path)

	if strings.Contains(event.Operation, "REMOVE") || strings.Contains(event.Operation, "RENAME") {
		o.mu.Lock()
		delete(o.flights, flightID)
		o.lastEvt = flightID + " removed"
		o.mu.Unlock()
		return
	}

	// Writers may still be flushing the log; give the file a moment.
	time.Sleep(constants.WatchDebounce)

	summary, err := o.reviewer.ReviewFile(event.Path)
	if err != nil {
		util.LogWarn(fmt.Sprintf("Failed to review %s: %v", event.Path, err))
		o.setStatus(fmt.Sprintf("review failed for %s", flightID))
		return
	}

	o.mu.Lock()
	o.flights[summary.FlightID] = summary
	o.lastEvt = summary.FlightID + " updated"
	o.mu.Unlock()
}

// handleKeyboard reacts to one key event; a true return requests exit.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q':
			return true
		case 'r', 'R':
			if err := o.reloadAll(); err != nil {
				o.setStatus(fmt.Sprintf("refresh failed: %v", err))
			} else {
				o.setStatus("reloaded")
			}
		case 'p', 'P':
			o.mu.Lock()
			o.paused = !o.paused
			o.mu.Unlock()
		case 's', 'S':
			o.setStatus("sorting by " + o.sorter.Cycle())
		case 'h', 'H':
			o.mu.Lock()
			o.showHelp = !o.showHelp
			o.mu.Unlock()
		}
	case interaction.KeyEscape:
		o.mu.Lock()
		wasHelp := o.showHelp
		o.showHelp = false
		o.mu.Unlock()
		return !wasHelp
	case interaction.KeyCtrlC:
		return true
	}
	return false
}

func (o *Orchestrator) isPaused() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.paused
}

func (o *Orchestrator) setStatus(msg string) {
	o.mu.Lock()
	o.status = msg
	o.mu.Unlock()
}

func (o *Orchestrator) render() {
	o.mu.RLock()
	flights := make([]*flight.Summary, 0, len(o.flights))
	for _, s := range o.flights {
		flights = append(flights, s)
	}
	state := &display.WatchState{
		Flights:     flights,
		LastEvent:   o.lastEvt,
		Paused:      o.paused,
		ShowHelp:    o.showHelp,
		StatusMsg:   o.status,
		SortColumn:  o.sorter.Field(),
		RefreshedAt: time.Now().Unix(),
	}
	o.mu.RUnlock()

	o.sorter.Sort(state.Flights)

	if o.poller != nil {
		state.Session = o.poller.Session()
		state.Hangar = o.poller.Hangar()
		state.HangarErr = o.poller.LastError()
	}

	o.display.Render(state)
}

func (o *Orchestrator) Close() error {
	if o.watcher != nil {
		return o.watcher.Close()
	}
	return nil
}
