package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroresponse/flightreview/internal/core/model"
)

func TestBuildNoAnchor(t *testing.T) {
	events, stats := Build(nil)
	assert.Empty(t, events)
	assert.Zero(t, stats.Total())

	events, stats = Build(&model.RawTelemetryRecord{})
	assert.Empty(t, events)
	assert.Zero(t, stats.Total())

	// A record with pilot events but no mission anchor has nothing to
	// compute offsets against.
	events, _ = Build(&model.RawTelemetryRecord{
		Pilot: &model.Pilot{
			CameraSwitches: []model.CameraSwitch{{Timestamp: "20240315_120010.000", CameraName: "thermal"}},
		},
	})
	assert.Empty(t, events)
}

func TestBuildAnchorFallback(t *testing.T) {
	// telemetryStartedTimestamp is absent, so alarmRecievedTimestamp
	// anchors the timeline and sits at offset zero.
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldAlarmRecieved: "20240315_120000.000",
			model.FieldTakeOff:       "20240315_120030.000",
		}},
	}
	events, _ := Build(rec)
	require.Len(t, events, 2)
	assert.Equal(t, "Alarm Recieved", events[0].Label)
	assert.InDelta(t, 0, events[0].SecondsFromStart, 1e-9)
	assert.Equal(t, "Take Off", events[1].Label)
	assert.InDelta(t, 30, events[1].SecondsFromStart, 1e-9)
}

func TestBuildMergesAllStreamsSorted(t *testing.T) {
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldTelemetryStarted: "20240315_120000.000",
			model.FieldTakeOff:          "20240315_120030.000",
			model.FieldWpStarted:        "20240315_120100.000",
		}},
		Pilot: &model.Pilot{
			CameraSwitches: []model.CameraSwitch{
				{Timestamp: "20240315_120045.000", CameraName: "thermal"},
				{Timestamp: "20240315_120130.000", CameraName: "wide"},
			},
		},
		IpadInteractions: []model.IpadInteraction{
			{
				Timestamp:       "20240315_120110.000",
				InteractionType: "operator_command",
				Details:         model.InteractionDetails{Command: "hold_position"},
			},
		},
	}

	events, stats := Build(rec)
	require.Len(t, events, 6)
	assert.Zero(t, stats.Total())

	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].SecondsFromStart, events[i-1].SecondsFromStart,
			"events must be sorted by offset")
	}

	labels := make([]string, len(events))
	for i, ev := range events {
		labels[i] = ev.Label
	}
	assert.Equal(t, []string{
		"Telemetry Started",
		"Take Off",
		"Switched to thermal",
		"Wp Started",
		"Hold Position",
		"Switched to wide",
	}, labels)
}

func TestBuildDropWindow(t *testing.T) {
	// Flight window is [0, 600] seconds. The pre-start camera switch and
	// the console message from a later flight both fall outside and are
	// dropped but counted.
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldTelemetryStarted: "20240315_120000.000",
			model.FieldTakeOff:          "20240315_120000.000",
			model.FieldLanded:           "20240315_121000.000",
		}},
		Pilot: &model.Pilot{
			CameraSwitches: []model.CameraSwitch{
				{Timestamp: "20240315_115930.000", CameraName: "thermal"},
				{Timestamp: "20240315_120500.000", CameraName: "wide"},
			},
		},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: "20240315_121200.000", Level: "info", Message: "post-flight checks"},
			{Timestamp: "20240315_121000.000", Level: "info", Message: "landed"},
		},
	}

	events, stats := Build(rec)
	assert.Equal(t, 1, stats.BeforeStart)
	assert.Equal(t, 1, stats.AfterEnd)

	// Telemetry Started, Take Off, Landed, one camera switch, one console
	// message exactly on the window edge.
	require.Len(t, events, 5)
	last := events[len(events)-1]
	assert.InDelta(t, 600, last.SecondsFromStart, 1e-9)
}

func TestBuildWindowFallsBackToTotalFlightTime(t *testing.T) {
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{
			Fields: map[string]any{
				model.FieldTelemetryStarted: "20240315_120000.000",
			},
			TotalFlightTime: 300,
		},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: "20240315_120100.000", Message: "in window"},
			{Timestamp: "20240315_120700.000", Message: "past window"},
		},
	}
	events, stats := Build(rec)
	require.Len(t, events, 2) // anchor event + in-window message
	assert.Equal(t, 1, stats.AfterEnd)
}

func TestBuildIgnoresLandingBeforeAnchor(t *testing.T) {
	// A landing timestamp earlier than the anchor is bogus. The window
	// falls back to totalFlightTime instead of going unbounded.
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{
			Fields: map[string]any{
				model.FieldTelemetryStarted: "20240315_120000.000",
				model.FieldLanded:           "20240315_115000.000",
			},
			TotalFlightTime: 300,
		},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: "20240315_120100.000", Message: "in window"},
			{Timestamp: "20240315_120700.000", Message: "past window"},
		},
	}
	events, stats := Build(rec)
	require.Len(t, events, 2) // anchor event + in-window message
	assert.Equal(t, 1, stats.AfterEnd)
	assert.Equal(t, 1, stats.BeforeStart) // the bogus landing itself
}

func TestBuildSkipsMalformedEventTimestamps(t *testing.T) {
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldTelemetryStarted: "20240315_120000.000",
		}},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: "not-a-timestamp", Message: "broken"},
			{Timestamp: "20240315_120010.000", Message: "fine"},
		},
	}
	events, stats := Build(rec)
	require.Len(t, events, 2)
	// The malformed timestamp parses to the sentinel and lands far before
	// the anchor, so it is counted as a pre-start drop.
	assert.Equal(t, 1, stats.BeforeStart)
}

func TestBuildStableTieOrder(t *testing.T) {
	// At equal offsets, insertion precedence holds: mission, pilot, ipad,
	// console.
	ts := "20240315_120030.000"
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldTelemetryStarted: "20240315_120000.000",
			model.FieldTakeOff:          ts,
		}},
		Pilot: &model.Pilot{
			CameraSwitches: []model.CameraSwitch{{Timestamp: ts, CameraName: "zoom"}},
		},
		IpadInteractions: []model.IpadInteraction{
			{Timestamp: ts, InteractionType: "map_pan"},
		},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: ts, Message: "tied"},
		},
	}
	events, _ := Build(rec)
	require.Len(t, events, 5)
	assert.Equal(t, []Category{
		CategoryMission, CategoryMission, CategoryPilot, CategoryIpad, CategoryConsole,
	}, []Category{events[0].Category, events[1].Category, events[2].Category, events[3].Category, events[4].Category})
}

func TestEventLabels(t *testing.T) {
	rec := &model.RawTelemetryRecord{
		Mission: &model.Mission{Fields: map[string]any{
			model.FieldTelemetryStarted: "20240315_120000.000",
		}},
		Pilot: &model.Pilot{
			ManualControlEvents: []model.ManualControlEvent{
				{Timestamp: "20240315_120005.000", Reason: "operator_requested"},
				{Timestamp: "20240315_120010.000", Reason: "emergency"},
				{Timestamp: "20240315_120015.000", Reason: "safety"},
				{Timestamp: "20240315_120020.000", Reason: "gps_drift"},
			},
		},
		IpadInteractions: []model.IpadInteraction{
			{Timestamp: "20240315_120025.000", InteractionType: "operator_command", Details: model.InteractionDetails{Command: "circle_target"}},
			{Timestamp: "20240315_120030.000", InteractionType: "operator_command", Details: model.InteractionDetails{Command: "return_to_base"}},
			{Timestamp: "20240315_120035.000", InteractionType: "operator_command", Details: model.InteractionDetails{Command: "orbit_left"}},
			{Timestamp: "20240315_120040.000", InteractionType: "screen_tap"},
		},
		ConsoleMessages: []model.ConsoleMessage{
			{Timestamp: "20240315_120045.000", Message: "short message"},
			{Timestamp: "20240315_120050.000", Message: "line one\nline two of a much longer entry"},
		},
	}

	events, _ := Build(rec)
	require.Len(t, events, 11)

	labels := make([]string, 0, len(events))
	for _, ev := range events[1:] { // skip the anchor event
		labels = append(labels, ev.Label)
	}
	assert.Equal(t, []string{
		"Manual Control: Operator Request",
		"Manual Control: Emergency",
		"Manual Control: Safety",
		"Manual Control: gps_drift",
		"Circle Target",
		"Return Command",
		"Operator: orbit_left",
		"screen_tap",
		"short message",
		"line one line two of a much lo...",
	}, labels)
}
