package parser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroresponse/flightreview/internal/testing/fixtures"
)

func TestParseFile(t *testing.T) {
	gen := fixtures.NewFlightGenerator(t.TempDir())
	path, err := gen.GenerateOHCAFlight("20240315_120000", time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)

	p := NewParser(2)
	record, err := p.ParseFile(path)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "ohca", record.AlarmSubtype())
	assert.Equal(t, 1500.0, record.OutDistanceDirect())
	require.NotNil(t, record.Mission)
	assert.Equal(t, 610.0, record.Mission.TotalFlightTime)

	// Second parse hits the cache and returns the same record.
	again, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Same(t, record, again)
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(1)
	_, err := p.ParseFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseFileMalformed(t *testing.T) {
	gen := fixtures.NewFlightGenerator(t.TempDir())
	path, err := gen.GenerateMalformedFile("broken")
	require.NoError(t, err)

	p := NewParser(1)
	_, err = p.ParseFile(path)
	assert.Error(t, err)
}

func TestParseFilesConcurrent(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewFlightGenerator(dir)
	start := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	var files []string
	for i := 0; i < 5; i++ {
		path, err := gen.GenerateOHCAFlight(fixtures.Timestamp(start.Add(time.Duration(i)*time.Hour))[:15], start)
		require.NoError(t, err)
		files = append(files, path)
	}
	broken, err := gen.GenerateMalformedFile("broken")
	require.NoError(t, err)
	files = append(files, broken)

	p := NewParser(3)
	var ok, failed int
	for result := range p.ParseFiles(files) {
		if result.Error != nil {
			failed++
			assert.Equal(t, broken, result.File)
		} else {
			ok++
			assert.NotNil(t, result.Record)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 1, failed)
}
