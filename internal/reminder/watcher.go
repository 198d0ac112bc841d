package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/storage"
)

// Watcher is the supervising poll loop. It replaces the per-consumer idle
// loops (chat prompt check, continuous-voice check, proactive check) with
// one scanner: each pass asks the store for due reminders and pushes them
// through the scheduler's trigger path, where the compare-and-set
// transition keeps redundant detection harmless. Its interval is typically
// much shorter than the scheduler's own safety scan.
type Watcher struct {
	store    storage.Store
	sched    *Scheduler
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWatcher(store storage.Store, sched *Scheduler, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		store:    store,
		sched:    sched,
		interval: interval,
		log:      log,
	}
}

func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		due, err := w.store.GetDue(ctx, time.Now())
		if err != nil {
			w.log.Error().Err(err).Msg("Watcher failed to get due reminders")
			continue
		}
		for _, r := range due {
			w.sched.Trigger(ctx, r.ID)
		}
	}
}
