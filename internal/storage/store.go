// Package storage owns the persisted reminder records and is the sole
// arbiter of their lifecycle transitions.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/voxalabs/voxa/internal/models"
)

var ErrNotFound = errors.New("reminder not found")

// Store is the durable, queryable record of all reminders. Every transition
// method behaves as a compare-and-set: it succeeds only from the expected
// source state and reports a concurrent loss as a plain false, so at most
// one caller ever wins a given transition.
type Store interface {
	// Create persists a new reminder. It fills in ID, Status, CreatedAt
	// and the task category, and never validates task or trigger time.
	Create(ctx context.Context, r *models.Reminder) error

	// Get returns the reminder with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Reminder, error)

	// GetActive returns all reminders with status active, ordered by
	// trigger time.
	GetActive(ctx context.Context) ([]*models.Reminder, error)

	// GetDue returns the active reminders whose trigger time has passed.
	GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error)

	// MarkTriggered transitions active -> triggered and records the
	// generated message in the triggered-event log. A recurring reminder
	// instead advances to its next occurrence and stays active. Returns
	// false if the reminder is missing or no longer active.
	MarkTriggered(ctx context.Context, id, message string) (bool, error)

	// PendingTriggered returns the logged announcement for every reminder
	// still in the triggered state, oldest first. A restarted host replays
	// these so an announcement lost between the transition and delivery
	// still reaches the user.
	PendingTriggered(ctx context.Context) ([]models.TriggeredEvent, error)

	// Acknowledge transitions triggered -> completed. False if the
	// reminder is not currently triggered.
	Acknowledge(ctx context.Context, id string) (bool, error)

	// Cancel transitions active -> cancelled. Idempotent in effect:
	// false for any reminder that is not active.
	Cancel(ctx context.Context, id string) (bool, error)

	// CancelByKeyword cancels the first active reminder whose task
	// contains the keyword, case-insensitively. Nil if none match.
	CancelByKeyword(ctx context.Context, keyword string) (*models.Reminder, error)

	// Purge applies the retention policy, see PurgeStats.
	Purge(ctx context.Context, now time.Time) (PurgeStats, error)

	// Summary returns the aggregate view used by list commands.
	Summary(ctx context.Context) (*Summary, error)

	Close() error
}

// SettingsStore is implemented by stores that persist user settings
// alongside the reminders themselves.
type SettingsStore interface {
	Settings() models.Settings
	UpdateSettings(settings models.Settings) error
}

// PurgeStats reports what a retention sweep did: completed records are
// removed immediately, triggered-but-unacknowledged records after a short
// grace window, cancelled and ancient records after the retention window,
// and active records overdue by more than the stuck threshold are
// force-completed so they stop being retried.
type PurgeStats struct {
	Removed int
	Stuck   int
}

// Summary is the aggregate view of active reminders
type Summary struct {
	TotalActive   int                `json:"total_active"`
	UpcomingToday int                `json:"upcoming_today"`
	Sample        []*models.Reminder `json:"reminders"`
}

// Retention windows
const (
	TriggeredGraceWindow = 5 * time.Minute
	StuckThreshold       = time.Hour
	SummarySampleSize    = 5
)
