package timeline

import (
	"sort"
	"strings"

	"github.com/aeroresponse/flightreview/internal/core/kpi"
	"github.com/aeroresponse/flightreview/internal/core/model"
	"github.com/aeroresponse/flightreview/internal/util"
)

const consoleLabelMax = 30

// Known manual-control reasons and operator commands map to fixed labels;
// anything else falls through to a generic prefix form.
var manualControlLabels = map[string]string{
	"operator_requested": "Manual Control: Operator Request",
	"emergency":          "Manual Control: Emergency",
	"safety":             "Manual Control: Safety",
}

var operatorCommandLabels = map[string]string{
	"hold_position":  "Hold Position",
	"circle_target":  "Circle Target",
	"return_to_base": "Return Command",
}

// Build merges the record's event streams into one chronologically sorted
// timeline of offsets from the flight's start anchor. Candidate events
// outside the [0, flight duration] window are dropped and counted in the
// returned DropStats. A record with no usable anchor yields an empty
// timeline; individually malformed events are skipped, not fatal.
func Build(rec *model.RawTelemetryRecord) ([]Event, DropStats) {
	var stats DropStats
	if rec == nil {
		return nil, stats
	}

	anchor := rec.MissionTimestamp(model.FieldTelemetryStarted)
	if anchor == "" {
		anchor = rec.MissionTimestamp(model.FieldAlarmRecieved)
	}
	startInstant := kpi.ParseTimestamp(anchor)
	if anchor == "" || startInstant == 0 {
		return nil, stats
	}

	endOffset := flightEndOffset(rec, startInstant)

	events := make([]Event, 0, 16)
	add := func(ts string, category Category, label string, value any) {
		offset := float64(kpi.ParseTimestamp(ts)-startInstant) / 1000
		if offset < 0 {
			stats.BeforeStart++
			return
		}
		if endOffset >= 0 && offset > endOffset {
			stats.AfterEnd++
			return
		}
		events = append(events, Event{
			Timestamp:        ts,
			SecondsFromStart: offset,
			Category:         category,
			Label:            label,
			Value:            value,
		})
	}

	// Insertion order matters: mission phases first, then pilot, ipad and
	// console streams, so equal offsets keep this precedence after the
	// stable sort.
	if rec.Mission != nil {
		for _, f := range rec.Mission.TimestampFields() {
			add(f.Value, CategoryMission, missionLabel(f.Name), nil)
		}
	}

	if rec.Pilot != nil {
		for _, sw := range rec.Pilot.CameraSwitches {
			add(sw.Timestamp, CategoryPilot, "Switched to "+sw.CameraName, sw.CameraName)
		}
		for _, mc := range rec.Pilot.ManualControlEvents {
			add(mc.Timestamp, CategoryPilot, manualControlLabel(mc.Reason), mc.Reason)
		}
	}

	for _, ia := range rec.IpadInteractions {
		add(ia.Timestamp, CategoryIpad, ipadLabel(ia), nil)
	}

	for _, msg := range rec.ConsoleMessages {
		add(msg.Timestamp, CategoryConsole, util.TruncateMessage(msg.Message, consoleLabelMax), msg.Level)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SecondsFromStart < events[j].SecondsFromStart
	})
	return events, stats
}

// flightEndOffset computes the drop-window upper bound in seconds from
// start. The landing timestamp is the end reference; when it is absent or
// unparseable the numeric totalFlightTime stands in, and with neither the
// window is unbounded (-1).
func flightEndOffset(rec *model.RawTelemetryRecord, startInstant int64) float64 {
	if landed := rec.MissionTimestamp(model.FieldLanded); landed != "" {
		if instant := kpi.ParseTimestamp(landed); instant != 0 {
			// A landing before the anchor is bogus; fall through to the
			// numeric duration rather than opening the window.
			if offset := float64(instant-startInstant) / 1000; offset >= 0 {
				return offset
			}
		}
	}
	if rec.Mission != nil && rec.Mission.TotalFlightTime > 0 {
		return rec.Mission.TotalFlightTime
	}
	return -1
}

func missionLabel(fieldName string) string {
	return util.FieldLabel(strings.TrimSuffix(fieldName, "Timestamp"))
}

func manualControlLabel(reason string) string {
	if label, ok := manualControlLabels[reason]; ok {
		return label
	}
	return "Manual Control: " + reason
}

func ipadLabel(ia model.IpadInteraction) string {
	if ia.InteractionType != "operator_command" {
		return ia.InteractionType
	}
	if label, ok := operatorCommandLabels[ia.Details.Command]; ok {
		return label
	}
	return "Operator: " + ia.Details.Command
}
