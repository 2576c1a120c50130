package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Date", "Flight", "Subtype", "Alarm-T/O", "Clearance",
			"WP Out", "WP Out 2km", "AED Drop", "Delivery", "Out Dist", "Events",
		},
	}
}

func (f *TableFormatter) Format(flights []*flight.Summary) error {
	widths := f.calculateColumnWidths(flights)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	for _, s := range flights {
		f.printRow(f.rowValues(s), widths)
	}

	f.printBorder(widths, "bottom")
	fmt.Printf("%d flights reviewed\n", len(flights))
	return nil
}

func (f *TableFormatter) rowValues(s *flight.Summary) []string {
	events := fmt.Sprintf("%d", len(s.Timeline))
	if dropped := s.Dropped.Total(); dropped > 0 {
		events = fmt.Sprintf("%d (-%d)", len(s.Timeline), dropped)
	}

	dist := "-"
	if s.OutDistanceM > 0 {
		dist = fmt.Sprintf("%.0f m", s.OutDistanceM)
	}

	return []string{
		s.Date,
		f.flightCell(s.FlightID),
		s.Class,
		util.FormatSeconds(s.KPIs.AlarmToTakeoff),
		util.FormatSeconds(s.KPIs.AwaitingClearance),
		util.FormatSeconds(s.KPIs.WpOutActual),
		util.FormatSeconds(s.KPIs.WpOutCalibrated),
		util.FormatSeconds(s.KPIs.AedDropTime),
		util.FormatSeconds(s.KPIs.CalibratedDeliveryTime),
		dist,
		events,
	}
}

// flightCell truncates long flight IDs on narrow terminals so the table
// still fits.
func (f *TableFormatter) flightCell(id string) string {
	max := 36
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 && width < 140 {
		max = 16
	}
	return util.TruncateMessage(id, max)
}

// calculateColumnWidths determines the width for each column based on
// content, measured in display cells rather than bytes.
func (f *TableFormatter) calculateColumnWidths(flights []*flight.Summary) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}

	for _, s := range flights {
		for i, value := range f.rowValues(s) {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < 6 {
			widths[i] = 6
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row. The first three columns are left-aligned
// text, the rest right-aligned values.
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		pad := widths[i] - runewidth.StringWidth(value)
		if pad < 0 {
			pad = 0
		}
		if i <= 2 {
			fmt.Printf(" %s%s │", value, strings.Repeat(" ", pad))
		} else {
			fmt.Printf(" %s%s │", strings.Repeat(" ", pad), value)
		}
	}
	fmt.Println()
}
