package review

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/data/cache"
	"github.com/aeroresponse/flightreview/internal/data/parser"
	"github.com/aeroresponse/flightreview/internal/data/scanner"
	"github.com/aeroresponse/flightreview/internal/presentation/formatter"
	"github.com/aeroresponse/flightreview/internal/util"
)

type Config struct {
	DataDir      string
	CacheDir     string
	OutputFormat string
	Timezone     string
	Duration     string
	SortBy       string
	Limit        int
	Concurrency  int
}

// Reviewer drives the review pipeline: scan flight logs, derive KPI sets
// and timelines, and hand the results to a formatter.
type Reviewer struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
}

func New(config *Config) (*Reviewer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	fileCache, err := cache.NewFileCache(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache at %s: %w", config.CacheDir, err)
	}

	return &Reviewer{
		config:  config,
		cache:   fileCache,
		scanner: scanner.NewFileScanner(config.DataDir),
		parser:  parser.NewParser(config.Concurrency),
	}, nil
}

func (r *Reviewer) Run() error {
	flights, err := r.Collect()
	if err != nil {
		return err
	}
	return formatter.New(r.config.OutputFormat).Format(flights)
}

// Collect runs every pipeline phase up to formatting and returns the
// filtered, sorted flight summaries.
func (r *Reviewer) Collect() ([]*flight.Summary, error) {
	startTime := time.Now()
	util.LogInfo("Starting flight review...")

	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if err := r.cache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
	}
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart)))

	// Phase 2: Scan flight logs
	scanStart := time.Now()
	files, err := r.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan flight logs: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files)))

	if len(files) == 0 {
		return nil, fmt.Errorf("no flight logs found under %s", r.config.DataDir)
	}

	// Phase 3: Batch validate cache and derive summaries for misses
	deriveStart := time.Now()
	stats := NewCacheStats()
	summaries := make([]*flight.Summary, 0, len(files))

	flightIDs := make([]string, 0, len(files))
	idByFile := make(map[string]string, len(files))
	for _, file := range files {
		id := cache.FlightID(file)
		idByFile[file] = id
		flightIDs = append(flightIDs, id)
	}

	validCache := r.cache.BatchValidate(flightIDs)

	var filesToParse []string
	missReasons := make(map[string]cache.CacheMissReason)
	for _, file := range files {
		result := validCache[idByFile[file]]
		if result.Valid {
			stats.IncrementTotal()
			cached := r.cache.Get(idByFile[file])
			if cached.Found && cached.Summary != nil {
				stats.IncrementHit()
				summaries = append(summaries, cached.Summary)
				continue
			}
			// Preloaded entry went stale between validation and read.
			result.MissReason = cached.MissReason
		}
		filesToParse = append(filesToParse, file)
		missReasons[file] = result.MissReason
	}

	if len(filesToParse) > 0 {
		for result := range r.parser.ParseFiles(filesToParse) {
			stats.IncrementTotal()
			if result.Error != nil {
				stats.IncrementFailure()
				util.LogWarn(fmt.Sprintf("Failed to parse flight log %s: %v", result.File, result.Error))
				continue
			}

			id := idByFile[result.File]
			stats.IncrementMiss(result.File, missReasons[result.File])

			summary := flight.Summarize(id, result.File, result.Record)
			stampSourceInfo(summary)

			if err := r.cache.Set(id, summary); err != nil {
				util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", result.File, err))
			}
			summaries = append(summaries, summary)
		}
	}

	util.LogDebug(fmt.Sprintf("Phase 3 - Derivation duration: %v, flights: %d", time.Since(deriveStart), len(summaries)))
	stats.PrintFinalStats()

	if len(summaries) == 0 {
		return nil, fmt.Errorf("no valid flight telemetry found")
	}

	// Phase 4: Filter by look-back duration
	filtered := r.filterByDuration(summaries)
	util.LogDebug(fmt.Sprintf("Phase 4 - Flights after duration filter: %d", len(filtered)))

	// Phase 5: Sort
	r.sortSummaries(filtered)

	if r.config.Limit > 0 && len(filtered) > r.config.Limit {
		filtered = filtered[:r.config.Limit]
	}

	util.LogDebug(fmt.Sprintf("Total review duration: %v", time.Since(startTime)))
	return filtered, nil
}

// ReviewFile derives a single flight outside the batch pipeline, used by
// watch mode when one log changes.
func (r *Reviewer) ReviewFile(path string) (*flight.Summary, error) {
	record, err := r.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	id := cache.FlightID(path)
	summary := flight.Summarize(id, path, record)
	stampSourceInfo(summary)
	if err := r.cache.Set(id, summary); err != nil {
		util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", path, err))
	}
	return summary, nil
}

func (r *Reviewer) filterByDuration(summaries []*flight.Summary) []*flight.Summary {
	if r.config.Duration == "" {
		return summaries
	}

	fromTime, err := parseLookback(r.config.Duration)
	if err != nil {
		util.LogError(fmt.Sprintf("Failed to parse duration: %v", err))
		return summaries
	}

	cutoff := fromTime.UnixMilli()
	filtered := make([]*flight.Summary, 0, len(summaries))
	for _, s := range summaries {
		// Flights without a parseable anchor are kept; dropping them would
		// hide exactly the records that need a human look.
		if s.StartInstant == 0 || s.StartInstant >= cutoff {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func (r *Reviewer) sortSummaries(summaries []*flight.Summary) {
	switch r.config.SortBy {
	case "delivery":
		sort.SliceStable(summaries, func(i, j int) bool {
			di, dj := summaries[i].KPIs.CalibratedDeliveryTime, summaries[j].KPIs.CalibratedDeliveryTime
			// Unmeasurable flights sink to the end.
			if (di > 0) != (dj > 0) {
				return di > 0
			}
			return di < dj
		})
	case "subtype":
		sort.SliceStable(summaries, func(i, j int) bool {
			oi, oj := util.GetSubtypeOrder(summaries[i].Class), util.GetSubtypeOrder(summaries[j].Class)
			if oi != oj {
				return oi < oj
			}
			return summaries[i].StartInstant < summaries[j].StartInstant
		})
	default:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].StartInstant < summaries[j].StartInstant
		})
	}
}

// stampSourceInfo records the source file's size and mtime on the summary
// so the cache can detect staleness later.
func stampSourceInfo(summary *flight.Summary) {
	stat, err := os.Stat(summary.SourcePath)
	if err != nil {
		return
	}
	summary.FileSize = stat.Size()
	summary.LastModified = stat.ModTime().Unix()
}

var lookbackPattern = regexp.MustCompile(`(\d+)([hdwm])`)

// parseLookback converts a compound look-back spec like "12h", "7d" or
// "2w3d" into the cutoff time.
func parseLookback(durationStr string) (time.Time, error) {
	matches := lookbackPattern.FindAllStringSubmatch(durationStr, -1)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	var total time.Duration
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in duration: %s", match[1])
		}

		switch match[2] {
		case "h":
			total += time.Duration(value) * time.Hour
		case "d":
			total += time.Duration(value) * 24 * time.Hour
		case "w":
			total += time.Duration(value) * 7 * 24 * time.Hour
		case "m":
			// Months approximate as 30 days
			total += time.Duration(value) * 30 * 24 * time.Hour
		}
	}

	return time.Now().Add(-total), nil
}
