package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "small number", input: 512, expected: "512"},
		{name: "thousands", input: 2500, expected: "2.5K"},
		{name: "millions", input: 3200000, expected: "3.2M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2h 5m", FormatDuration(2*time.Hour+5*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero means underived", input: 0, expected: "-"},
		{name: "negative means underived", input: -3, expected: "-"},
		{name: "under a minute", input: 42, expected: "42s"},
		{name: "rounds half up", input: 41.6, expected: "42s"},
		{name: "exactly a minute", input: 60, expected: "1m 00s"},
		{name: "minutes and seconds", input: 145, expected: "2m 25s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeconds(tt.input))
		})
	}
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two words", input: "wpStarted", expected: "Wp Started"},
		{name: "three words", input: "droneHoldForClearance", expected: "Drone Hold For Clearance"},
		{name: "single word", input: "landed", expected: "Landed"},
		{name: "already capitalized", input: "TakeOff", expected: "Take Off"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FieldLabel(tt.input))
		})
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short text unchanged",
			input:    "battery ok",
			max:      30,
			expected: "battery ok",
		},
		{
			name:     "newlines collapsed",
			input:    "line one\nline two",
			max:      30,
			expected: "line one line two",
		},
		{
			name:     "carriage returns collapsed",
			input:    "a\r\nb\rc",
			max:      30,
			expected: "a b c",
		},
		{
			name:     "long text truncated with ellipsis",
			input:    "this console message is definitely longer than the cap",
			max:      30,
			expected: "this console message is defini...",
		},
		{
			name:     "exactly at the cap",
			input:    "123456789012345678901234567890",
			max:      30,
			expected: "123456789012345678901234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateMessage(tt.input, tt.max))
		})
	}
}
