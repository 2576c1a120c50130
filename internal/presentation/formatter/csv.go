package formatter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/aeroresponse/flightreview/internal/core/flight"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(flights []*flight.Summary) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		"Date", "Flight", "Subtype", "AlarmToTakeoff", "AwaitingClearance",
		"WpOutActual", "WpOutCalibrated", "AedDropTime", "AedReleaseAGL",
		"CalibratedDeliveryTime", "OutDistanceDirectM", "TimelineEvents", "DroppedEvents",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, s := range flights {
		row := []string{
			s.Date,
			s.FlightID,
			s.Class,
			formatFloat(s.KPIs.AlarmToTakeoff),
			formatFloat(s.KPIs.AwaitingClearance),
			formatFloat(s.KPIs.WpOutActual),
			formatFloat(s.KPIs.WpOutCalibrated),
			formatFloat(s.KPIs.AedDropTime),
			formatFloat(s.KPIs.AedReleaseAGL),
			formatFloat(s.KPIs.CalibratedDeliveryTime),
			formatFloat(s.OutDistanceM),
			fmt.Sprintf("%d", len(s.Timeline)),
			fmt.Sprintf("%d", s.Dropped.Total()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
