package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonSize
	MissReasonModTime
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonSize:
		return "size changed"
	case MissReasonModTime:
		return "modified"
	case MissReasonNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

type CacheResult struct {
	Summary    *flight.Summary
	Found      bool
	MissReason CacheMissReason
}

type ValidateResult struct {
	Valid      bool
	MissReason CacheMissReason
}

// Cache stores derived flight summaries keyed by flight ID so unchanged
// logs are not re-derived on every run.
type Cache interface {
	Get(flightID string) CacheResult
	Set(flightID string, summary *flight.Summary) error
	Clear() error
	Preload() error
	BatchValidate(flightIDs []string) map[string]ValidateResult
}

type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*flight.Summary
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*flight.Summary),
	}, nil
}

// FlightID derives the cache key for a flight-log path, the filename stem.
func FlightID(filePath string) string {
	filename := filepath.Base(filePath)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (c *FileCache) Get(flightID string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if summary, exists := c.memoryCache[flightID]; exists {
		if reason := c.validate(summary); reason == MissReasonNone {
			return CacheResult{Summary: summary, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, flightID)
	}

	return c.getFromFile(flightID)
}

func (c *FileCache) getFromFile(flightID string) CacheResult {
	cachePath := filepath.Join(c.baseDir, flightID+".json")

	file, err := os.Open(cachePath)
	if err != nil {
		return CacheResult{Found: false, MissReason: MissReasonNotFound}
	}
	defer file.Close()

	var summary flight.Summary
	if err := json.NewDecoder(file).Decode(&summary); err != nil {
		return CacheResult{Found: false, MissReason: MissReasonError}
	}

	if reason := c.validate(&summary); reason != MissReasonNone {
		return CacheResult{Found: false, MissReason: reason}
	}

	c.memoryCache[flightID] = &summary
	return CacheResult{Summary: &summary, Found: true, MissReason: MissReasonNone}
}

// validate checks whether the summary still matches its source file on
// disk, by size and modification time.
func (c *FileCache) validate(summary *flight.Summary) CacheMissReason {
	if summary == nil || summary.SourcePath == "" {
		return MissReasonError
	}
	stat, err := os.Stat(summary.SourcePath)
	if err != nil {
		return MissReasonError
	}
	if stat.Size() != summary.FileSize {
		return MissReasonSize
	}
	if stat.ModTime().Unix() != summary.LastModified {
		return MissReasonModTime
	}
	return MissReasonNone
}

func (c *FileCache) Set(flightID string, summary *flight.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache[flightID] = summary

	cachePath := filepath.Join(c.baseDir, flightID+".json")
	file, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(summary); err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*flight.Summary)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.baseDir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Preload loads every cache file into memory up front so batch validation
// does not touch the disk per flight.
func (c *FileCache) Preload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(c.baseDir, entry.Name()))
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip unreadable cache file %s: %v", entry.Name(), err))
			continue
		}

		var summary flight.Summary
		if err := json.Unmarshal(data, &summary); err != nil {
			util.LogDebug(fmt.Sprintf("Skip corrupt cache file %s: %v", entry.Name(), err))
			continue
		}

		c.memoryCache[strings.TrimSuffix(entry.Name(), ".json")] = &summary
		loaded++
	}

	util.LogDebug(fmt.Sprintf("Preloaded %d cache entries", loaded))
	return nil
}

// BatchValidate checks a set of flight IDs against the preloaded cache in
// one pass and reports per-flight validity with miss reasons.
func (c *FileCache) BatchValidate(flightIDs []string) map[string]ValidateResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make(map[string]ValidateResult, len(flightIDs))
	for _, id := range flightIDs {
		summary, exists := c.memoryCache[id]
		if !exists {
			results[id] = ValidateResult{Valid: false, MissReason: MissReasonNotFound}
			continue
		}
		reason := c.validate(summary)
		results[id] = ValidateResult{Valid: reason == MissReasonNone, MissReason: reason}
	}
	return results
}
