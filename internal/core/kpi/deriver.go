package kpi

import (
	"math"
	"strings"

	"github.com/aeroresponse/flightreview/internal/core/model"
)

// AlarmClass is the coarse alarm-subtype classification that selects which
// derivation rules apply.
type AlarmClass int

const (
	ClassDefault AlarmClass = iota
	ClassLiveview
	ClassOHCA
)

func (c AlarmClass) String() string {
	switch c {
	case ClassLiveview:
		return "liveview"
	case ClassOHCA:
		return "ohca"
	default:
		return "default"
	}
}

// Calibration reference: waypoint-transit times are normalized to an
// equivalent 2 km outbound leg so flights of different distances compare.
// The value is a fixed physical reference; changing it would break
// comparability with historical KPI values.
const (
	calibrationReferenceMeters = 2000.0
	maxCalibrationFactor       = 10.0
	minCalibrationFactor       = 0.1
)

// KPISet holds the named durations derived from one flight record.
// A KPI whose source timestamps are missing stays at 0.
type KPISet struct {
	AlarmToTakeoff         float64 `json:"alarmToTakeoff"`
	AwaitingClearance      float64 `json:"awaitingClearance"`
	WpOutActual            float64 `json:"wpOutActual"`
	WpOutCalibrated        float64 `json:"wpOutCalibrated"`
	AedDropTime            float64 `json:"aedDropTime"`
	AedReleaseAGL          float64 `json:"aedReleaseAGL"`
	CalibratedDeliveryTime float64 `json:"calibratedDeliveryTime"`
}

// ClassifyAlarm resolves the record's alarm subtype to a class. Unknown
// subtypes, and records with no classification fields at all, fall into
// the default class.
func ClassifyAlarm(rec *model.RawTelemetryRecord) AlarmClass {
	switch strings.ToLower(rec.AlarmSubtype()) {
	case "liveview":
		return ClassLiveview
	case "ohca":
		return ClassOHCA
	default:
		return ClassDefault
	}
}

// Derive computes the KPISet for one flight record. Every rule is guarded
// on the presence of all its source timestamps; missing inputs leave the
// KPI at 0 rather than producing NaN or an error. An empty record yields
// an all-zero set.
func Derive(rec *model.RawTelemetryRecord) KPISet {
	var k KPISet
	if rec == nil {
		return k
	}
	class := ClassifyAlarm(rec)

	if from, to := rec.AlarmReceived(), rec.MissionTimestamp(model.FieldTakeOff); from != "" && to != "" {
		k.AlarmToTakeoff = DurationSeconds(from, to)
	}

	if from, to := rec.MissionTimestamp(model.FieldDroneHoldForClearance), rec.MissionTimestamp(model.FieldClearanceConfirmed); from != "" && to != "" {
		k.AwaitingClearance = DurationSeconds(from, to)
	}

	k.WpOutActual = wpOutActual(rec, class)
	k.WpOutCalibrated = calibrate(k.WpOutActual, rec.OutDistanceDirect())

	if class == ClassOHCA {
		if from, to := rec.MissionTimestamp(model.FieldAtAlarmLocation), rec.MissionTimestamp(model.FieldAedDeliveryApprovedAt); from != "" && to != "" {
			k.AedDropTime = DurationSeconds(from, to)
		}
		if rec.Mission != nil && rec.Mission.AedReleaseAGL != 0 {
			k.AedReleaseAGL = math.Round(rec.Mission.AedReleaseAGL)
		}
	}

	// All-or-nothing gating: a zero base component means missing data, and
	// summing around it would report a misleadingly low total.
	if k.AlarmToTakeoff > 0 && k.AwaitingClearance > 0 && k.WpOutCalibrated > 0 {
		k.CalibratedDeliveryTime = k.AlarmToTakeoff + k.AwaitingClearance + k.WpOutCalibrated
		if class == ClassOHCA {
			k.CalibratedDeliveryTime += k.AedDropTime
		}
	}

	return k
}

// wpOutActual measures the outbound waypoint transit. The end marker
// differs per subtype: liveview flights end at the start of the mission
// profiles, OHCA flights at AED delivery approval. Other subtypes carry
// no wpOut KPI.
func wpOutActual(rec *model.RawTelemetryRecord, class AlarmClass) float64 {
	start := rec.MissionTimestamp(model.FieldWpStarted)
	if start == "" {
		return 0
	}

	var end string
	switch class {
	case ClassLiveview:
		end = rec.MissionTimestamp(model.FieldStartingMissionProfiles)
	case ClassOHCA:
		end = rec.MissionTimestamp(model.FieldAedDeliveryApprovedAt)
	default:
		return 0
	}
	if end == "" {
		return 0
	}
	return DurationSeconds(start, end)
}

// calibrate scales an outbound transit time to the 2 km reference leg.
// Legs shorter than 200 m or longer than 20 km are too far from the
// reference to extrapolate safely; the calibration is rejected and the
// actual value passes through unmodified.
func calibrate(actual, distanceMeters float64) float64 {
	if actual <= 0 || distanceMeters <= 0 {
		return actual
	}
	factor := calibrationReferenceMeters / distanceMeters
	if factor > maxCalibrationFactor || factor < minCalibrationFactor {
		return actual
	}
	return math.Round(actual * factor)
}
