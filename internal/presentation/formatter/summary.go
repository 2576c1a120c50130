package formatter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/data/aggregator"
	"github.com/aeroresponse/flightreview/internal/util"
)

// SummaryFormatter renders an aggregate report across the reviewed
// flights, grouped by alarm subtype.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(flights []*flight.Summary) error {
	fs := aggregator.Aggregate(flights)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Flight Review Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if fs.FirstDay != "" {
		if fs.FirstDay == fs.LastDay {
			fmt.Printf("Date Range: %s\n", fs.FirstDay)
		} else {
			fmt.Printf("Date Range: %s to %s\n", fs.FirstDay, fs.LastDay)
		}
	}
	fmt.Printf("Flights Reviewed: %s\n\n", humanize.Comma(int64(fs.Flights)))

	for _, st := range fs.Subtypes {
		fmt.Printf("%s (%d flights)\n", strings.ToUpper(st.Subtype), st.Flights)

		if st.WithDelivery > 0 {
			fmt.Printf("  Calibrated delivery: mean %s, min %s, max %s (%d/%d flights measurable)\n",
				util.FormatSeconds(st.DeliveryMean),
				util.FormatSeconds(st.DeliveryMin),
				util.FormatSeconds(st.DeliveryMax),
				st.WithDelivery, st.Flights)
		} else {
			fmt.Println("  Calibrated delivery: no measurable flights")
		}

		if st.WithTakeoff > 0 {
			fmt.Printf("  Alarm to takeoff: mean %s\n", util.FormatSeconds(st.TakeoffMean))
		}
		if st.WithDistance > 0 {
			fmt.Printf("  Mean outbound leg: %s m\n", humanize.CommafWithDigits(st.DistanceMean, 0))
		}
		if st.DroppedEvents > 0 {
			fmt.Printf("  Out-of-window events dropped: %d\n", st.DroppedEvents)
		}
		fmt.Println()
	}

	fmt.Printf("Generated at %s\n", util.GetTimeProvider().FormatNow("2006-01-02 15:04:05"))
	return nil
}
