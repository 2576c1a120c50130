package interaction

import (
	"testing"

	"github.com/aeroresponse/flightreview/internal/core/flight"
	"github.com/aeroresponse/flightreview/internal/core/kpi"
)

func TestKeyboardReaderParseInput(t *testing.T) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{
			name:     "Regular char",
			input:    []byte{'q'},
			expected: &KeyEvent{Key: 'q', Type: KeyChar},
		},
		{
			name:     "Escape",
			input:    []byte{27},
			expected: &KeyEvent{Key: 27, Type: KeyEscape},
		},
		{
			name:     "Ctrl+C",
			input:    []byte{3},
			expected: &KeyEvent{Key: 3, Type: KeyCtrlC},
		},
		{
			name:     "CSI sequence ignored",
			input:    []byte{27, '[', 'A'},
			expected: nil,
		},
		{
			name:     "Empty buffer",
			input:    []byte{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := kr.parseInput(tt.input)
			if tt.expected == nil {
				if event != nil {
					t.Errorf("Expected nil, got %+v", event)
				}
			} else {
				if event == nil {
					t.Errorf("Expected %+v, got nil", tt.expected)
				} else if event.Type != tt.expected.Type || event.Key != tt.expected.Key {
					t.Errorf("Expected %+v, got %+v", tt.expected, event)
				}
			}
		})
	}
}

func TestFlightSorter(t *testing.T) {
	flights := []*flight.Summary{
		{FlightID: "a", StartInstant: 2000, OutDistanceM: 500, KPIs: kpi.KPISet{CalibratedDeliveryTime: 300}},
		{FlightID: "b", StartInstant: 3000, OutDistanceM: 1500, KPIs: kpi.KPISet{CalibratedDeliveryTime: 100}},
		{FlightID: "c", StartInstant: 1000, OutDistanceM: 900, KPIs: kpi.KPISet{CalibratedDeliveryTime: 200}},
	}

	sorter := NewFlightSorter()

	// Default: most recent flight first.
	sorter.Sort(flights)
	if flights[0].FlightID != "b" {
		t.Errorf("Expected most recent flight first, got %s", flights[0].FlightID)
	}

	if got := sorter.Cycle(); got != "delivery" {
		t.Errorf("Expected delivery after first cycle, got %s", got)
	}
	sorter.Sort(flights)
	if flights[0].FlightID != "a" {
		t.Errorf("Expected slowest delivery first, got %s", flights[0].FlightID)
	}

	if got := sorter.Cycle(); got != "distance" {
		t.Errorf("Expected distance after second cycle, got %s", got)
	}
	sorter.Sort(flights)
	if flights[0].FlightID != "b" {
		t.Errorf("Expected longest leg first, got %s", flights[0].FlightID)
	}

	if got := sorter.Cycle(); got != "time" {
		t.Errorf("Expected cycle to wrap back to time, got %s", got)
	}
}
