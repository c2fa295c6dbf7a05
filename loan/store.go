/*
store.go - Persistence interface for saved schedules

PURPOSE:
  Schedule computation is pure; saving is optional. A caller that wants to
  keep a schedule (an API client, a CLI run with --save) hands it to a
  Store together with an ID.

IMPLEMENTATIONS:
  - loan/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go: SQLite with versioned migrations

SEE ALSO:
  - api/handlers.go: Saves schedules on POST /api/schedules
*/
package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SavedSchedule is a schedule with its storage identity.
type SavedSchedule struct {
	ID        string    `json:"id"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSavedSchedule assigns a fresh ID and creation time to s.
func NewSavedSchedule(s Schedule) SavedSchedule {
	return SavedSchedule{
		ID:        uuid.NewString(),
		Schedule:  s,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists saved schedules.
type Store interface {
	// Save writes a schedule. Saving an existing ID replaces it.
	Save(ctx context.Context, s SavedSchedule) error

	// Get returns ErrScheduleNotFound if id doesn't exist.
	Get(ctx context.Context, id string) (SavedSchedule, error)

	// List returns all saved schedules, newest first.
	List(ctx context.Context) ([]SavedSchedule, error)

	// Delete returns ErrScheduleNotFound if id doesn't exist.
	Delete(ctx context.Context, id string) error
}
