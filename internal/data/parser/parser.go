package parser

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/aeroresponse/flightreview/internal/core/model"
	"github.com/aeroresponse/flightreview/internal/util"
)

// Parser reads flight-log JSON files into telemetry records.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]*model.RawTelemetryRecord
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Record *model.RawTelemetryRecord
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]*model.RawTelemetryRecord),
	}
}

// ParseFile parses one flight-log file into a RawTelemetryRecord. Results
// are cached per path for the lifetime of the parser.
func (p *Parser) ParseFile(filepath string) (*model.RawTelemetryRecord, error) {
	p.mu.Lock()
	if cached, ok := p.cache[filepath]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing flight log: %s", filepath))

	data, err := os.ReadFile(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to read file: %s - %v", filepath, err))
		return nil, err
	}

	var record model.RawTelemetryRecord
	if err := sonic.Unmarshal(data, &record); err != nil {
		util.LogDebug(fmt.Sprintf("Invalid flight log JSON %s - %v", filepath, err))
		return nil, fmt.Errorf("parse %s: %w", filepath, err)
	}

	p.mu.Lock()
	p.cache[filepath] = &record
	p.mu.Unlock()

	return &record, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of
// ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			record, err := p.ParseFile(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("Flight log parsing failed: %s - %v", f, err))
			}

			results <- ParseResult{
				File:   f,
				Record: record,
				Error:  err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}
