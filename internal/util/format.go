package util

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Helper functions
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatSeconds renders a KPI duration for display, mm:ss above one
// minute, plain seconds below. Zero means the KPI could not be derived.
func FormatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	s := int(seconds + 0.5)
	if s >= 60 {
		return fmt.Sprintf("%dm %02ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// FieldLabel turns a camel-cased field name into a display label,
// e.g. "wpStarted" -> "Wp Started". Cosmetic only; KPI math never
// depends on label text.
func FieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// TruncateMessage collapses embedded newlines to spaces and truncates the
// text to max runes, appending "..." when anything was cut.
func TruncateMessage(text string, max int) string {
	collapsed := newlineReplacer.Replace(text)
	runes := []rune(collapsed)
	if len(runes) <= max {
		return collapsed
	}
	return string(runes[:max]) + "..."
}
