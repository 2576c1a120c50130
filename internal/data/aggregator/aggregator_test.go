package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/core/kpi"
	"github.com/aeroresponse/flightreview/internal/core/timeline"
)

func summaryWith(class, date string, delivery, takeoff, distance float64) *flight.Summary {
	return &flight.Summary{
		Class:        class,
		Date:         date,
		OutDistanceM: distance,
		KPIs: kpi.KPISet{
			CalibratedDeliveryTime: delivery,
			AlarmToTakeoff:         takeoff,
		},
	}
}

func TestAggregateEmpty(t *testing.T) {
	fs := Aggregate(nil)
	assert.Zero(t, fs.Flights)
	assert.Empty(t, fs.Subtypes)
	assert.Empty(t, fs.FirstDay)
}

func TestAggregatePerSubtype(t *testing.T) {
	flights := []*flight.Summary{
		summaryWith("ohca", "2024-03-15", 200, 40, 1500),
		summaryWith("ohca", "2024-03-16", 300, 60, 2500),
		summaryWith("ohca", "2024-03-14", 0, 0, 0), // unmeasurable flight
		summaryWith("liveview", "2024-03-15", 120, 30, 900),
	}
	flights[0].Dropped = timeline.DropStats{BeforeStart: 2, AfterEnd: 1}

	fs := Aggregate(flights)

	assert.Equal(t, 4, fs.Flights)
	assert.Equal(t, "2024-03-14", fs.FirstDay)
	assert.Equal(t, "2024-03-16", fs.LastDay)

	// ohca sorts before liveview.
	require.Len(t, fs.Subtypes, 2)
	ohca, liveview := fs.Subtypes[0], fs.Subtypes[1]
	assert.Equal(t, "ohca", ohca.Subtype)
	assert.Equal(t, "liveview", liveview.Subtype)

	assert.Equal(t, 3, ohca.Flights)
	assert.Equal(t, 2, ohca.WithDelivery)
	assert.InDelta(t, 250, ohca.DeliveryMean, 0.001)
	assert.Equal(t, 200.0, ohca.DeliveryMin)
	assert.Equal(t, 300.0, ohca.DeliveryMax)
	assert.Equal(t, 2, ohca.WithTakeoff)
	assert.InDelta(t, 50, ohca.TakeoffMean, 0.001)
	assert.InDelta(t, 2000, ohca.DistanceMean, 0.001)
	assert.Equal(t, 3, ohca.DroppedEvents)

	assert.Equal(t, 1, liveview.Flights)
	assert.InDelta(t, 120, liveview.DeliveryMean, 0.001)
}

func TestAggregateUnmeasurableClass(t *testing.T) {
	fs := Aggregate([]*flight.Summary{summaryWith("default", "", 0, 0, 0)})

	require.Len(t, fs.Subtypes, 1)
	st := fs.Subtypes[0]
	assert.Equal(t, 1, st.Flights)
	assert.Zero(t, st.WithDelivery)
	assert.Zero(t, st.DeliveryMean)
	assert.Empty(t, fs.FirstDay)
}
