package hangar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aeroresponse/flightreview/internal/util"
)

// Poller periodically refreshes session and hangar state from the remote
// service and keeps the last successful snapshot. Poll failures are logged
// and skipped; the previous snapshot stays visible.
type Poller struct {
	client   *Client
	interval time.Duration

	mu      sync.RWMutex
	session *SessionState
	hangar  *HangarState
	lastErr error
}

func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
	}
}

// Run polls until the context is cancelled. The first poll happens
// immediately so watchers do not wait a full interval for initial state.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	session, sessionErr := p.client.ActiveSession(ctx)
	hangarState, hangarErr := p.client.HangarStatus(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if sessionErr == nil {
		p.session = session
	}
	if hangarErr == nil {
		p.hangar = hangarState
	}

	switch {
	case sessionErr != nil:
		p.lastErr = sessionErr
		util.LogWarn(fmt.Sprintf("Hangar session poll failed: %v", sessionErr))
	case hangarErr != nil:
		p.lastErr = hangarErr
		util.LogWarn(fmt.Sprintf("Hangar status poll failed: %v", hangarErr))
	default:
		p.lastErr = nil
	}
}

// Session returns the last successfully fetched session state, or nil
// before the first successful poll.
func (p *Poller) Session() *SessionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// Hangar returns the last successfully fetched hangar snapshot.
func (p *Poller) Hangar() *HangarState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hangar
}

// LastError returns the most recent poll error, nil when the last cycle
// succeeded.
func (p *Poller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
