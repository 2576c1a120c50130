package flight

import (
	"github.com/aeroresponse/flightreview/internal/core/kpi"
	"github.com/aeroresponse/flightreview/internal/core/model"
	"github.com/aeroresponse/flightreview/internal/core/timeline"
)

// Summary is the derived review result for one flight: its KPI set, the
// unified event timeline, and enough source metadata to validate cached
// copies against the originating file.
type Summary struct {
	FlightID         string             `json:"flightId"`
	SourcePath       string             `json:"sourcePath"`
	Date             string             `json:"date"`
	AlarmSubtype     string             `json:"alarmSubtype"`
	Class            string             `json:"class"`
	CompletionStatus string             `json:"completionStatus"`
	OutDistanceM     float64            `json:"outDistanceM"`
	StartInstant     int64              `json:"startInstant"`
	KPIs             kpi.KPISet         `json:"kpis"`
	Timeline         []timeline.Event   `json:"timeline"`
	Dropped          timeline.DropStats `json:"dropped"`
	LastModified     int64              `json:"lastModified"`
	FileSize         int64              `json:"fileSize"`
}

// Summarize runs the KPI and timeline derivations over one record. It is
// pure over the record and never fails; missing data degrades to zero
// KPIs and a shorter timeline.
func Summarize(flightID, sourcePath string, rec *model.RawTelemetryRecord) *Summary {
	events, dropped := timeline.Build(rec)
	s := &Summary{
		FlightID:     flightID,
		SourcePath:   sourcePath,
		AlarmSubtype: rec.AlarmSubtype(),
		Class:        kpi.ClassifyAlarm(rec).String(),
		OutDistanceM: rec.OutDistanceDirect(),
		KPIs:         kpi.Derive(rec),
		Timeline:     events,
		Dropped:      dropped,
	}
	anchor := rec.MissionTimestamp(model.FieldTelemetryStarted)
	if anchor == "" {
		anchor = rec.AlarmReceived()
	}
	s.StartInstant = kpi.ParseTimestamp(anchor)
	s.Date = flightDate(anchor)
	if rec != nil {
		if rec.DashMetadata != nil && rec.DashMetadata.CompletionStatus != "" {
			s.CompletionStatus = rec.DashMetadata.CompletionStatus
		} else if rec.Alarm != nil {
			s.CompletionStatus = rec.Alarm.CompletionStatus
		}
	}
	return s
}

// flightDate extracts the calendar date from the anchor timestamp,
// e.g. "20240315_120000.000" -> "2024-03-15".
func flightDate(ts string) string {
	if kpi.ParseTimestamp(ts) == 0 {
		return ""
	}
	return ts[0:4] + "-" + ts[4:6] + "-" + ts[6:8]
}
