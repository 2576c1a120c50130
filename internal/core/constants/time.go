package constants

import "time"

const (
	// Live watch view refresh cadence
	UIRefreshInterval   = 1 * time.Second
	DataRefreshInterval = 30 * time.Second

	// Hangar status polling
	HangarPollInterval = 10 * time.Second

	// File-change handling
	WatchDebounce = 500 * time.Millisecond

	// Remote hangar API
	HangarRequestTimeout = 5 * time.Second
)
