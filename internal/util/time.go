package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider formats display timestamps in the configured timezone.
// The KPI engine itself stays on the local calendar; only presentation
// goes through the provider.
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	timeProviderMu     sync.Mutex
)

// InitializeTimeProvider sets the global provider's timezone. An invalid
// timezone leaves the previous provider in place.
func InitializeTimeProvider(timezone string) error {
	timeProviderMu.Lock()
	defer timeProviderMu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider, defaulting to the
// Local timezone when nothing was initialized.
func GetTimeProvider() *TimeProvider {
	if globalTimeProvider == nil {
		InitializeTimeProvider("Local")
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w (use Local, UTC or an IANA name like Europe/Stockholm)", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// FormatNow formats the current time according to the layout
func (tp *TimeProvider) FormatNow(layout string) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Now().In(tp.location).Format(layout)
}
