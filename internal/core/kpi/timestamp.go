package kpi

import (
	"regexp"
	"strconv"
	"time"
)

// Telemetry timestamps use a compact local wall-clock form with no
// timezone, e.g. "20240315_142307.250". Instants derived from them are
// only ever subtracted from instants of the same record, so only internal
// consistency matters, not absolute calendar correctness.
var timestampPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})(?:\.(\d{1,3}))?$`)

// ParseTimestamp converts a compact telemetry timestamp to milliseconds on
// the local-time axis. Any malformed input, including the empty string,
// yields the sentinel instant 0 rather than an error.
func ParseTimestamp(s string) int64 {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	millis := 0
	if m[7] != "" {
		frac := m[7]
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ = strconv.Atoi(frac)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), time.Local)
	return t.UnixMilli()
}

// DurationSeconds returns the elapsed seconds between two telemetry
// timestamps. When either side fails to parse the result is computed from
// the sentinel instant; callers are expected to check field presence
// before trusting the value.
func DurationSeconds(from, to string) float64 {
	return float64(ParseTimestamp(to)-ParseTimestamp(from)) / 1000
}
