package formatter

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/core/kpi"
	"github.com/aeroresponse/flightreview/internal/core/timeline"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	require.NoError(t, w.Close())
	os.Stdout = old
	require.NoError(t, runErr)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func sampleFlights() []*flight.Summary {
	return []*flight.Summary{
		{
			FlightID:     "20240315_120000",
			Date:         "2024-03-15",
			Class:        "ohca",
			OutDistanceM: 1500,
			KPIs: kpi.KPISet{
				AlarmToTakeoff:         45,
				AwaitingClearance:      8,
				WpOutActual:            90,
				WpOutCalibrated:        120,
				AedDropTime:            10,
				AedReleaseAGL:          29,
				CalibratedDeliveryTime: 183,
			},
			Timeline: []timeline.Event{
				{Timestamp: "20240315_120000.000", Category: timeline.CategoryMission, Label: "Telemetry Started"},
			},
		},
		{
			FlightID: "20240316_093000",
			Date:     "2024-03-16",
			Class:    "liveview",
		},
	}
}

func TestNewSelectsFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, New("json"))
	assert.IsType(t, &CSVFormatter{}, New("csv"))
	assert.IsType(t, &SummaryFormatter{}, New("summary"))
	assert.IsType(t, &TableFormatter{}, New("table"))
	assert.IsType(t, &TableFormatter{}, New("anything-else"))
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewJSONFormatter().Format(sampleFlights())
	})

	var decoded []*flight.Summary
	require.NoError(t, sonic.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "20240315_120000", decoded[0].FlightID)
	assert.Equal(t, 183.0, decoded[0].KPIs.CalibratedDeliveryTime)
}

func TestCSVFormatterRows(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewCSVFormatter().Format(sampleFlights())
	})

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, "2024-03-15", records[1][0])
	assert.Equal(t, "ohca", records[1][2])
	assert.Equal(t, "183", records[1][9])
	assert.Equal(t, "0", records[2][9])
}

func TestTableFormatterOutput(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewTableFormatter().Format(sampleFlights())
	})

	assert.Contains(t, out, "20240315_120000")
	assert.Contains(t, out, "ohca")
	assert.Contains(t, out, "2 flights reviewed")
	// Box borders are present.
	assert.Contains(t, out, "─")
}

func TestSummaryFormatterOutput(t *testing.T) {
	out := captureStdout(t, func() error {
		return NewSummaryFormatter().Format(sampleFlights())
	})

	assert.Contains(t, out, "Flight Review Summary")
	assert.Contains(t, out, "Flights Reviewed: 2")
	assert.Contains(t, out, "OHCA (1 flights)")
	assert.Contains(t, out, "Date Range: 2024-03-15 to 2024-03-16")
	assert.Contains(t, out, "no measurable flights")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "183", formatFloat(183))
	assert.Equal(t, "12.35", formatFloat(12.345))
	assert.Equal(t, "0", formatFloat(0))
}
