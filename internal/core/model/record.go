package model

import (
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Mission timestamp field names as they appear in the telemetry payload.
// The "Recieved" misspelling is part of the upstream wire contract.
const (
	FieldAlarmRecieved           = "alarmRecievedTimestamp"
	FieldTakeOff                 = "takeOffTimestamp"
	FieldDroneHoldForClearance   = "droneHoldForClearanceTimestamp"
	FieldClearanceConfirmed      = "clearanceConfirmedTimestamp"
	FieldWpStarted               = "wpStartedTimestamp"
	FieldStartingMissionProfiles = "startingMissionProfilesTimestamp"
	FieldAtAlarmLocation         = "atAlarmLocationTimestamp"
	FieldAedDeliveryApprovedAt   = "aedDeliveryApprovedAtTimestamp"
	FieldTelemetryStarted        = "telemetryStartedTimestamp"
	FieldLanded                  = "landedTimestamp"
)

// RawTelemetryRecord is a single flight-log payload as uploaded or fetched
// from the telemetry API. Every group is optional; consumers must tolerate
// any subset being absent.
type RawTelemetryRecord struct {
	Mission          *Mission          `json:"mission,omitempty"`
	Pilot            *Pilot            `json:"pilot,omitempty"`
	IpadInteractions []IpadInteraction `json:"ipadInteractions,omitempty"`
	ConsoleMessages  []ConsoleMessage  `json:"consoleMessages,omitempty"`
	Routes           *Routes           `json:"routes,omitempty"`
	Alarm            *Alarm            `json:"alarm,omitempty"`
	DashMetadata     *DashMetadata     `json:"dashMetadata,omitempty"`
}

// Mission holds the named mission-phase timestamps plus a few numeric
// fields. The set of timestamp keys is open-ended upstream, so the raw
// field map is retained for enumeration alongside the typed numerics.
type Mission struct {
	TotalFlightTime float64
	TimeToWP        float64
	AedReleaseAGL   float64

	// Fields is the raw decoded mission object. Timestamp lookups and
	// enumeration go through this map so unknown keys survive decoding.
	Fields map[string]any
}

func (m *Mission) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Fields = raw
	m.TotalFlightTime = floatField(raw, "totalFlightTime")
	m.TimeToWP = floatField(raw, "timeToWP")
	m.AedReleaseAGL = floatField(raw, "aedReleaseAGL")
	return nil
}

func (m Mission) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Fields)+3)
	for k, v := range m.Fields {
		out[k] = v
	}
	if m.TotalFlightTime != 0 {
		out["totalFlightTime"] = m.TotalFlightTime
	}
	if m.TimeToWP != 0 {
		out["timeToWP"] = m.TimeToWP
	}
	if m.AedReleaseAGL != 0 {
		out["aedReleaseAGL"] = m.AedReleaseAGL
	}
	return sonic.Marshal(out)
}

// Timestamp returns the named mission timestamp, or "" when the key is
// absent or not a string.
func (m *Mission) Timestamp(name string) string {
	if m == nil || m.Fields == nil {
		return ""
	}
	if s, ok := m.Fields[name].(string); ok {
		return s
	}
	return ""
}

// TimestampField is one named mission timestamp value.
type TimestampField struct {
	Name  string
	Value string
}

// TimestampFields enumerates every mission key whose name contains
// "timestamp" (case-insensitive) and carries a non-empty string value.
// Keys are returned in lexicographic order so enumeration is deterministic.
func (m *Mission) TimestampFields() []TimestampField {
	if m == nil || m.Fields == nil {
		return nil
	}
	var fields []TimestampField
	for k, v := range m.Fields {
		if !strings.Contains(strings.ToLower(k), "timestamp") {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		fields = append(fields, TimestampField{Name: k, Value: s})
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return fields
}

// Pilot groups the pilot-side event streams.
type Pilot struct {
	CameraSwitches      []CameraSwitch       `json:"cameraSwitches,omitempty"`
	ManualControlEvents []ManualControlEvent `json:"manualControlEvents,omitempty"`
}

type CameraSwitch struct {
	Timestamp  string `json:"timestamp"`
	CameraName string `json:"cameraName"`
}

type ManualControlEvent struct {
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason"`
}

// IpadInteraction is one operator action issued from the field tablet.
type IpadInteraction struct {
	Timestamp       string             `json:"timestamp"`
	InteractionType string             `json:"interactionType"`
	Details         InteractionDetails `json:"details,omitempty"`
}

// InteractionDetails is free-form upstream; only the command field is
// interpreted here.
type InteractionDetails struct {
	Command string `json:"command,omitempty"`
	Note    string `json:"note,omitempty"`
}

type ConsoleMessage struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level,omitempty"`
	Message   string `json:"message"`
}

// Routes carries the planned and direct leg distances in meters.
type Routes struct {
	OutDistance        float64 `json:"outDistance,omitempty"`
	OutDistanceDirect  float64 `json:"outDistanceDirect,omitempty"`
	HomeDistance       float64 `json:"homeDistance,omitempty"`
	HomeDistanceDirect float64 `json:"homeDistanceDirect,omitempty"`
}

type Alarm struct {
	Type                      string `json:"type,omitempty"`
	IncidentTypeCoordcom      string `json:"incidentTypeCoordcom,omitempty"`
	AlarmReceivedFromCoordcom string `json:"alarmReceivedFromCoordcom,omitempty"`
	CompletionStatus          string `json:"completionStatus,omitempty"`
}

type DashMetadata struct {
	AlarmType        string `json:"alarmType,omitempty"`
	CompletionStatus string `json:"completionStatus,omitempty"`
}

// MissionTimestamp is a nil-safe lookup of a named mission timestamp.
func (r *RawTelemetryRecord) MissionTimestamp(name string) string {
	if r == nil {
		return ""
	}
	return r.Mission.Timestamp(name)
}

// AlarmSubtype resolves the alarm classification through the candidate
// field chain, first present value wins: dashMetadata.alarmType, then
// alarm.incidentTypeCoordcom, then alarm.type.
func (r *RawTelemetryRecord) AlarmSubtype() string {
	if r == nil {
		return ""
	}
	if r.DashMetadata != nil && r.DashMetadata.AlarmType != "" {
		return r.DashMetadata.AlarmType
	}
	if r.Alarm != nil {
		if r.Alarm.IncidentTypeCoordcom != "" {
			return r.Alarm.IncidentTypeCoordcom
		}
		if r.Alarm.Type != "" {
			return r.Alarm.Type
		}
	}
	return ""
}

// AlarmReceived resolves the alarm-received timestamp, preferring the
// mission field over the coordcom relay field.
func (r *RawTelemetryRecord) AlarmReceived() string {
	if r == nil {
		return ""
	}
	if ts := r.Mission.Timestamp(FieldAlarmRecieved); ts != "" {
		return ts
	}
	if r.Alarm != nil {
		return r.Alarm.AlarmReceivedFromCoordcom
	}
	return ""
}

// OutDistanceDirect returns the direct outbound leg distance in meters,
// or 0 when routes are absent.
func (r *RawTelemetryRecord) OutDistanceDirect() float64 {
	if r == nil || r.Routes == nil {
		return 0
	}
	return r.Routes.OutDistanceDirect
}

func floatField(raw map[string]any, key string) float64 {
	if v, ok := raw[key].(float64); ok {
		return v
	}
	return 0
}
