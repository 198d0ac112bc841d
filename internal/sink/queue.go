package sink

import (
	"context"

	"github.com/rs/zerolog"
)

// QueueSink buffers announcements for a consumer that polls on its own
// schedule, like the interactive chat loop answering the next user turn.
// The channel is bounded; when it fills, the oldest announcement is
// dropped so a stalled consumer cannot wedge delivery.
type QueueSink struct {
	ch  chan Announcement
	log zerolog.Logger
}

func NewQueueSink(size int, log zerolog.Logger) *QueueSink {
	if size <= 0 {
		size = 16
	}
	return &QueueSink{ch: make(chan Announcement, size), log: log}
}

func (q *QueueSink) Name() string { return "queue" }

func (q *QueueSink) Announce(_ context.Context, a Announcement) error {
	for {
		select {
		case q.ch <- a:
			return nil
		default:
			select {
			case dropped := <-q.ch:
				q.log.Warn().Str("id", dropped.Reminder.ID).Msg("Pending queue full, dropping oldest announcement")
			default:
			}
		}
	}
}

// Next returns the oldest pending announcement without blocking
func (q *QueueSink) Next() (Announcement, bool) {
	select {
	case a := <-q.ch:
		return a, true
	default:
		return Announcement{}, false
	}
}

// Pending is the number of buffered announcements
func (q *QueueSink) Pending() int { return len(q.ch) }
