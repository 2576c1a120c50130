package formatter

import (
	"github.com/aeroresponse/flightreview/internal/core/flight"
)

// Formatter renders a set of reviewed flights to stdout.
type Formatter interface {
	Format(flights []*flight.Summary) error
}

// New returns the formatter for the given output format name, defaulting
// to the table renderer.
func New(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	case "csv":
		return NewCSVFormatter()
	case "summary":
		return NewSummaryFormatter()
	default:
		return NewTableFormatter()
	}
}
