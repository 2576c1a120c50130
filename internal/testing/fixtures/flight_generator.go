package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// FlightGenerator writes synthetic flight-log JSON files for tests.
type FlightGenerator struct {
	baseDir string
}

// NewFlightGenerator creates a generator rooted at baseDir.
func NewFlightGenerator(baseDir string) *FlightGenerator {
	return &FlightGenerator{baseDir: baseDir}
}

// Timestamp renders t in the compact telemetry wire format.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405") + fmt.Sprintf(".%03d", t.Nanosecond()/1e6)
}

// GenerateOHCAFlight writes a complete cardiac-arrest flight log with every
// mission phase present. The flight ID doubles as the file name stem.
func (g *FlightGenerator) GenerateOHCAFlight(flightID string, start time.Time) (string, error) {
	payload := map[string]any{
		"mission": map[string]any{
			"telemetryStartedTimestamp":      Timestamp(start),
			"alarmRecievedTimestamp":         Timestamp(start.Add(2 * time.Second)),
			"takeOffTimestamp":               Timestamp(start.Add(47 * time.Second)),
			"droneHoldForClearanceTimestamp": Timestamp(start.Add(55 * time.Second)),
			"clearanceConfirmedTimestamp":    Timestamp(start.Add(63 * time.Second)),
			"wpStartedTimestamp":             Timestamp(start.Add(70 * time.Second)),
			"atAlarmLocationTimestamp":       Timestamp(start.Add(150 * time.Second)),
			"aedDeliveryApprovedAtTimestamp": Timestamp(start.Add(160 * time.Second)),
			"landedTimestamp":                Timestamp(start.Add(600 * time.Second)),
			"totalFlightTime":                610.0,
			"timeToWP":                       90.0,
			"aedReleaseAGL":                  28.5,
		},
		"pilot": map[string]any{
			"cameraSwitches": []map[string]any{
				{"timestamp": Timestamp(start.Add(80 * time.Second)), "cameraName": "thermal"},
			},
			"manualControlEvents": []map[string]any{
				{"timestamp": Timestamp(start.Add(150 * time.Second)), "reason": "operator_requested"},
			},
		},
		"ipadInteractions": []map[string]any{
			{
				"timestamp":       Timestamp(start.Add(155 * time.Second)),
				"interactionType": "command",
				"details":         map[string]any{"command": "hold_position"},
			},
		},
		"consoleMessages": []map[string]any{
			{
				"timestamp": Timestamp(start.Add(30 * time.Second)),
				"level":     "info",
				"message":   "preflight checks passed",
			},
		},
		"routes": map[string]any{
			"outDistance":       1720.0,
			"outDistanceDirect": 1500.0,
		},
		"alarm": map[string]any{
			"incidentTypeCoordcom": "ohca",
			"completionStatus":     "completed",
		},
		"dashMetadata": map[string]any{
			"alarmType": "ohca",
		},
	}
	return g.write(flightID, payload)
}

// GenerateLiveviewFlight writes a liveview flight whose waypoint phase ends
// at startingMissionProfiles.
func (g *FlightGenerator) GenerateLiveviewFlight(flightID string, start time.Time) (string, error) {
	payload := map[string]any{
		"mission": map[string]any{
			"telemetryStartedTimestamp":        Timestamp(start),
			"alarmRecievedTimestamp":           Timestamp(start.Add(3 * time.Second)),
			"takeOffTimestamp":                 Timestamp(start.Add(40 * time.Second)),
			"wpStartedTimestamp":               Timestamp(start.Add(50 * time.Second)),
			"startingMissionProfilesTimestamp": Timestamp(start.Add(170 * time.Second)),
			"landedTimestamp":                  Timestamp(start.Add(420 * time.Second)),
			"totalFlightTime":                  425.0,
			"timeToWP":                         120.0,
		},
		"routes": map[string]any{
			"outDistanceDirect": 2400.0,
		},
		"alarm": map[string]any{
			"type": "liveview",
		},
	}
	return g.write(flightID, payload)
}

// GenerateMinimalFlight writes a record with almost everything missing;
// KPI derivation over it should produce an all-zero set.
func (g *FlightGenerator) GenerateMinimalFlight(flightID string) (string, error) {
	payload := map[string]any{
		"consoleMessages": []map[string]any{
			{"timestamp": "not-a-timestamp", "message": "telemetry uplink lost"},
		},
	}
	return g.write(flightID, payload)
}

// GenerateMalformedFile writes a file that is not valid JSON.
func (g *FlightGenerator) GenerateMalformedFile(flightID string) (string, error) {
	path := filepath.Join(g.baseDir, flightID+".json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (g *FlightGenerator) write(flightID string, payload map[string]any) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	data, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, flightID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
