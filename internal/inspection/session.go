package inspection

import (
	"fmt"
	"time"
)

// Inspection statuses. A session only ever moves forward:
// pending -> in-progress -> completed.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Session is one post-flight hangar inspection.
type Session struct {
	ID          int64  `json:"id"`
	FlightID    string `json:"flightId"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	OpenedAt    int64  `json:"openedAt,omitempty"`
	CompletedAt int64  `json:"completedAt,omitempty"`
}

// NextStatus returns the status following current, or an error when the
// session cannot advance further.
func NextStatus(current string) (string, error) {
	switch current {
	case StatusPending:
		return StatusInProgress, nil
	case StatusInProgress:
		return StatusCompleted, nil
	case StatusCompleted:
		return "", fmt.Errorf("inspection already completed")
	default:
		return "", fmt.Errorf("unknown inspection status %q", current)
	}
}

// Elapsed reports how long the inspection has been open. Completed
// sessions report the open-to-complete span; pending ones report zero.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.OpenedAt == 0 {
		return 0
	}
	end := now
	if s.CompletedAt != 0 {
		end = time.Unix(s.CompletedAt, 0)
	}
	elapsed := end.Sub(time.Unix(s.OpenedAt, 0))
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
