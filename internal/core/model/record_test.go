package model

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "mission": {
    "telemetryStartedTimestamp": "20240315_120000.000",
    "alarmRecievedTimestamp": "20240315_115950.000",
    "takeOffTimestamp": "20240315_120030.000",
    "landedTimestamp": "20240315_121500.000",
    "operatorNote": "windy",
    "emptyTimestamp": "",
    "totalFlightTime": 870.5,
    "timeToWP": 95,
    "aedReleaseAGL": 30.2
  },
  "pilot": {
    "cameraSwitches": [
      {"timestamp": "20240315_120100.000", "cameraName": "thermal"}
    ],
    "manualControlEvents": [
      {"timestamp": "20240315_120200.000", "reason": "emergency"}
    ]
  },
  "ipadInteractions": [
    {"timestamp": "20240315_120300.000", "interactionType": "operator_command", "details": {"command": "hold_position"}}
  ],
  "consoleMessages": [
    {"timestamp": "20240315_120400.000", "level": "warn", "message": "low battery"}
  ],
  "routes": {"outDistance": 2400, "outDistanceDirect": 2100, "homeDistance": 2300, "homeDistanceDirect": 2050},
  "alarm": {"incidentTypeCoordcom": "ohca", "alarmReceivedFromCoordcom": "20240315_115948.000"},
  "dashMetadata": {"alarmType": "OHCA", "completionStatus": "completed"}
}`

func TestUnmarshalRawTelemetryRecord(t *testing.T) {
	var rec RawTelemetryRecord
	require.NoError(t, sonic.Unmarshal([]byte(samplePayload), &rec))

	require.NotNil(t, rec.Mission)
	assert.InDelta(t, 870.5, rec.Mission.TotalFlightTime, 1e-9)
	assert.InDelta(t, 95, rec.Mission.TimeToWP, 1e-9)
	assert.InDelta(t, 30.2, rec.Mission.AedReleaseAGL, 1e-9)
	assert.Equal(t, "20240315_120030.000", rec.Mission.Timestamp(FieldTakeOff))
	assert.Equal(t, "", rec.Mission.Timestamp("missingTimestamp"))

	require.NotNil(t, rec.Pilot)
	require.Len(t, rec.Pilot.CameraSwitches, 1)
	assert.Equal(t, "thermal", rec.Pilot.CameraSwitches[0].CameraName)
	require.Len(t, rec.Pilot.ManualControlEvents, 1)

	require.Len(t, rec.IpadInteractions, 1)
	assert.Equal(t, "hold_position", rec.IpadInteractions[0].Details.Command)

	require.Len(t, rec.ConsoleMessages, 1)
	assert.Equal(t, "warn", rec.ConsoleMessages[0].Level)

	require.NotNil(t, rec.Routes)
	assert.InDelta(t, 2100, rec.Routes.OutDistanceDirect, 1e-9)
}

func TestTimestampFields(t *testing.T) {
	var rec RawTelemetryRecord
	require.NoError(t, sonic.Unmarshal([]byte(samplePayload), &rec))

	fields := rec.Mission.TimestampFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	// Lexicographic, non-empty string values only; the numeric fields and
	// the empty-valued key are excluded.
	assert.Equal(t, []string{
		"alarmRecievedTimestamp",
		"landedTimestamp",
		"takeOffTimestamp",
		"telemetryStartedTimestamp",
	}, names)
}

func TestTimestampFieldsNilSafety(t *testing.T) {
	var m *Mission
	assert.Nil(t, m.TimestampFields())
	assert.Equal(t, "", m.Timestamp(FieldTakeOff))

	var rec *RawTelemetryRecord
	assert.Equal(t, "", rec.MissionTimestamp(FieldTakeOff))
	assert.Equal(t, "", rec.AlarmSubtype())
	assert.Equal(t, "", rec.AlarmReceived())
	assert.Zero(t, rec.OutDistanceDirect())
}

func TestAlarmSubtypeChain(t *testing.T) {
	tests := []struct {
		name     string
		record   RawTelemetryRecord
		expected string
	}{
		{
			name: "dash metadata first",
			record: RawTelemetryRecord{
				DashMetadata: &DashMetadata{AlarmType: "ohca"},
				Alarm:        &Alarm{IncidentTypeCoordcom: "liveview", Type: "other"},
			},
			expected: "ohca",
		},
		{
			name: "coordcom incident type second",
			record: RawTelemetryRecord{
				Alarm: &Alarm{IncidentTypeCoordcom: "liveview", Type: "other"},
			},
			expected: "liveview",
		},
		{
			name: "alarm type last",
			record: RawTelemetryRecord{
				Alarm: &Alarm{Type: "other"},
			},
			expected: "other",
		},
		{
			name:     "nothing present",
			record:   RawTelemetryRecord{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.AlarmSubtype())
		})
	}
}

func TestAlarmReceivedFallback(t *testing.T) {
	rec := RawTelemetryRecord{
		Mission: &Mission{Fields: map[string]any{
			FieldAlarmRecieved: "20240315_115950.000",
		}},
		Alarm: &Alarm{AlarmReceivedFromCoordcom: "20240315_115948.000"},
	}
	assert.Equal(t, "20240315_115950.000", rec.AlarmReceived())

	rec.Mission = nil
	assert.Equal(t, "20240315_115948.000", rec.AlarmReceived())

	rec.Alarm = nil
	assert.Equal(t, "", rec.AlarmReceived())
}

func TestMissionMarshalRoundTrip(t *testing.T) {
	m := Mission{
		Fields: map[string]any{
			FieldTakeOff: "20240315_120030.000",
		},
		TotalFlightTime: 600,
	}
	data, err := sonic.Marshal(m)
	require.NoError(t, err)

	var decoded Mission
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, "20240315_120030.000", decoded.Timestamp(FieldTakeOff))
	assert.InDelta(t, 600, decoded.TotalFlightTime, 1e-9)
}
