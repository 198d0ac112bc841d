// Package extract derives a reminder task and trigger time from free text.
//
// Extraction is a strategy chain: a deterministic pattern matcher runs
// first, and only when it cannot parse the input does the AI extractor get
// a chance. This keeps the common "remind me in 5 minutes" path off the
// network entirely.
package extract

import (
	"context"
	"time"

	"github.com/voxalabs/voxa/internal/models"
)

// Result is a successfully extracted reminder request
type Result struct {
	Task        string
	TriggerTime time.Time
	Recurrence  models.Recurrence
	Urgency     string
}

// Extractor turns raw text into a Result. A nil Result with a nil error
// means the input is not an actionable reminder for this strategy.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string, now time.Time) (*Result, error)
}

// Chain tries each extractor in order and returns the first hit
type Chain []Extractor

func (c Chain) Extract(ctx context.Context, text string, now time.Time) (*Result, error) {
	var lastErr error
	for _, e := range c {
		res, err := e.Extract(ctx, text, now)
		if err != nil {
			lastErr = err
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, lastErr
}
