package interaction

import (
	"sort"

	"github.com/aeroresponse/flightreview/internal/core/flight"
)

// SortField represents the field to sort flights by
type SortField int

const (
	SortByTime SortField = iota
	SortByDelivery
	SortByDistance
)

func (f SortField) String() string {
	switch f {
	case SortByDelivery:
		return "delivery"
	case SortByDistance:
		return "distance"
	default:
		return "time"
	}
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// FlightSorter handles sorting of reviewed flights in the watch view
type FlightSorter struct {
	field SortField
	order SortOrder
}

// NewFlightSorter creates a sorter with the default ordering, most
// recent flight first.
func NewFlightSorter() *FlightSorter {
	return &FlightSorter{
		field: SortByTime,
		order: SortDescending,
	}
}

// Cycle advances to the next sort field and returns its name.
func (s *FlightSorter) Cycle() string {
	switch s.field {
	case SortByTime:
		s.field = SortByDelivery
	case SortByDelivery:
		s.field = SortByDistance
	default:
		s.field = SortByTime
	}
	return s.field.String()
}

// Field returns the current sort field name.
func (s *FlightSorter) Field() string {
	return s.field.String()
}

// Sort sorts the flights based on current settings
func (s *FlightSorter) Sort(flights []*flight.Summary) {
	sort.SliceStable(flights, func(i, j int) bool {
		var less bool

		switch s.field {
		case SortByTime:
			less = flights[i].StartInstant < flights[j].StartInstant
		case SortByDelivery:
			less = flights[i].KPIs.CalibratedDeliveryTime < flights[j].KPIs.CalibratedDeliveryTime
		case SortByDistance:
			less = flights[i].OutDistanceM < flights[j].OutDistanceM
		}

		if s.order == SortDescending {
			return !less
		}
		return less
	})
}
