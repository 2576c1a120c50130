package watch

import (
	"time"

	"github.com/aeroresponse/flightreview/internal/core/constants"
)

// Config configures the live watch session.
type Config struct {
	DataDir     string
	CacheDir    string
	Timezone    string
	Concurrency int

	DataRefreshInterval time.Duration

	// Hangar polling; empty HangarURL disables it.
	HangarURL          string
	HangarPollInterval time.Duration
}

// Normalize fills unset intervals with their defaults.
func (c *Config) Normalize() {
	if c.DataRefreshInterval <= 0 {
		c.DataRefreshInterval = constants.DataRefreshInterval
	}
	if c.HangarPollInterval <= 0 {
		c.HangarPollInterval = constants.HangarPollInterval
	}
}
