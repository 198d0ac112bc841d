// Package sink delivers due-reminder announcements to whatever the host
// has attached: a speaker, a pending queue drained by the chat loop, a
// Telegram chat. The store's compare-and-set transition decides whether an
// announcement should happen at all; sinks only carry it.
package sink

import (
	"context"

	"github.com/voxalabs/voxa/internal/models"
)

// Announcement is a reminder paired with its rendered message
type Announcement struct {
	Reminder *models.Reminder
	Message  string
}

// Sink receives one announcement per delivered occurrence. Implementations
// must be safe for concurrent use and must not panic on failure.
type Sink interface {
	Name() string
	Announce(ctx context.Context, a Announcement) error
}
