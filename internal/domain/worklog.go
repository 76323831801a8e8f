package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkEntry is a single tracked block of time. StoppedAt is nil while the
// entry is still running; at most one entry per user runs at a time.
type WorkEntry struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Description string     `json:"description"`
	StartedAt   time.Time  `json:"started_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
}

// Duration reports elapsed time, using now for a still-running entry.
func (e *WorkEntry) Duration(now time.Time) time.Duration {
	if e.StoppedAt != nil {
		return e.StoppedAt.Sub(e.StartedAt)
	}
	return now.Sub(e.StartedAt)
}
