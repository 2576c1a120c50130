package main

import (
	"os"

	"github.com/aeroresponse/flightreview/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
