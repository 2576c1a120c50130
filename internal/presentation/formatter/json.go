package formatter

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/aeroresponse/flightreview/internal/core/flight"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(flights []*flight.Summary) error {
	data, err := sonic.MarshalIndent(flights, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
