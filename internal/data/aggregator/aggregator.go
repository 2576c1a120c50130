package aggregator

import (
	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/util"
)

// SubtypeStats holds aggregated KPI statistics for one alarm class.
type SubtypeStats struct {
	Subtype string `json:"subtype"`
	Flights int    `json:"flights"`

	// Calibrated delivery time, over flights where it is measurable.
	WithDelivery int     `json:"withDelivery"`
	DeliveryMean float64 `json:"deliveryMean"`
	DeliveryMin  float64 `json:"deliveryMin"`
	DeliveryMax  float64 `json:"deliveryMax"`

	// Alarm-to-takeoff, over flights where it is measurable.
	WithTakeoff int     `json:"withTakeoff"`
	TakeoffMean float64 `json:"takeoffMean"`

	// Outbound leg distance.
	WithDistance int     `json:"withDistance"`
	DistanceMean float64 `json:"distanceMean"`

	DroppedEvents int `json:"droppedEvents"`

	deliverySum float64
	takeoffSum  float64
	distanceSum float64
}

// FleetStats is the aggregation result over a set of reviewed flights,
// one entry per alarm class in display order.
type FleetStats struct {
	Flights  int             `json:"flights"`
	FirstDay string          `json:"firstDay"`
	LastDay  string          `json:"lastDay"`
	Subtypes []*SubtypeStats `json:"subtypes"`
}

// Aggregate folds flight summaries into per-class statistics. Flights
// whose KPIs are zero still count toward the class total; they are just
// excluded from the affected means.
func Aggregate(flights []*flight.Summary) *FleetStats {
	byClass := make(map[string]*SubtypeStats)

	fs := &FleetStats{Flights: len(flights)}
	for _, s := range flights {
		st, ok := byClass[s.Class]
		if !ok {
			st = &SubtypeStats{Subtype: s.Class}
			byClass[s.Class] = st
		}
		st.Flights++
		st.DroppedEvents += s.Dropped.Total()

		if d := s.KPIs.CalibratedDeliveryTime; d > 0 {
			st.WithDelivery++
			st.deliverySum += d
			if st.DeliveryMin == 0 || d < st.DeliveryMin {
				st.DeliveryMin = d
			}
			if d > st.DeliveryMax {
				st.DeliveryMax = d
			}
		}
		if t := s.KPIs.AlarmToTakeoff; t > 0 {
			st.WithTakeoff++
			st.takeoffSum += t
		}
		if s.OutDistanceM > 0 {
			st.WithDistance++
			st.distanceSum += s.OutDistanceM
		}

		if s.Date != "" {
			if fs.FirstDay == "" || s.Date < fs.FirstDay {
				fs.FirstDay = s.Date
			}
			if s.Date > fs.LastDay {
				fs.LastDay = s.Date
			}
		}
	}

	subtypes := make([]string, 0, len(byClass))
	for subtype := range byClass {
		subtypes = append(subtypes, subtype)
	}
	for _, subtype := range util.SortSubtypes(subtypes) {
		st := byClass[subtype]
		if st.WithDelivery > 0 {
			st.DeliveryMean = st.deliverySum / float64(st.WithDelivery)
		}
		if st.WithTakeoff > 0 {
			st.TakeoffMean = st.takeoffSum / float64(st.WithTakeoff)
		}
		if st.WithDistance > 0 {
			st.DistanceMean = st.distanceSum / float64(st.WithDistance)
		}
		fs.Subtypes = append(fs.Subtypes, st)
	}
	return fs
}
