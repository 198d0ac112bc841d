// Package reminder is the scheduling and lifecycle-tracking engine: it arms
// one-shot timers for future reminders, re-arms them from the store on
// startup, and funnels every delivery through the store's compare-and-set
// transition so each occurrence is announced by exactly one code path.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/storage"
)

// DeliverFunc receives a reminder that just won its triggered transition,
// along with the generated announcement message
type DeliverFunc func(ctx context.Context, r *models.Reminder, message string)

// MessageFunc renders the announcement for a reminder
type MessageFunc func(r *models.Reminder) string

// Scheduler owns the ephemeral timer handles, keyed by reminder id. They
// are disposable: everything can be rebuilt from the store, which is why
// Start reloads pending work instead of trusting prior state.
type Scheduler struct {
	store   storage.Store
	deliver DeliverFunc
	message MessageFunc
	log     zerolog.Logger

	checkInterval time.Duration
	purgeInterval time.Duration

	mu        sync.Mutex
	timers    map[string]*time.Timer
	deadlines map[string]time.Time
	running   bool

	notifyCh chan struct{}
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

func NewScheduler(store storage.Store, deliver DeliverFunc, message MessageFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:         store,
		deliver:       deliver,
		message:       message,
		log:           log,
		checkInterval: 10 * time.Second,
		purgeInterval: time.Hour,
		timers:        make(map[string]*time.Timer),
		deadlines:     make(map[string]time.Time),
		notifyCh:      make(chan struct{}, 1),
	}
}

// Start loads pending work from the store and launches the safety watcher.
// It returns promptly; timers and the watcher run on their own goroutines.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	// Recover reminders stuck from a previous run before arming anything
	if stats, err := s.store.Purge(ctx, time.Now()); err != nil {
		s.log.Error().Err(err).Msg("Startup purge failed")
	} else if stats.Stuck > 0 || stats.Removed > 0 {
		s.log.Info().Int("removed", stats.Removed).Int("stuck", stats.Stuck).Msg("Startup purge")
	}

	s.loadExisting(ctx)

	s.wg.Add(1)
	go s.watch(ctx)

	s.log.Info().Msg("Reminder scheduler started")
}

// Stop cancels the watcher and all armed timers
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
		delete(s.deadlines, id)
	}
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.log.Info().Msg("Reminder scheduler stopped")
}

// Notify triggers an immediate watcher pass. Non-blocking if one is
// already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Schedule arms (or re-arms, replacing any existing timer) a one-shot
// delivery for the reminder. A trigger time already in the past delivers
// immediately.
func (s *Scheduler) Schedule(ctx context.Context, id string, at time.Time) {
	d := time.Until(at)
	if d <= 0 {
		// Delivery outlives the caller, so it cannot run on a request
		// context that is recycled when the handler returns
		go s.Trigger(context.Background(), id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[id]; ok {
		old.Stop()
	}
	s.deadlines[id] = at
	s.timers[id] = time.AfterFunc(d, func() {
		s.clearTimer(id)
		s.Trigger(context.Background(), id)
	})
	s.log.Debug().Str("id", id).Time("at", at).Msg("Scheduled reminder")
}

// Cancel removes the timer for the reminder if present. Idempotent.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
		delete(s.deadlines, id)
	}
}

// Reschedule moves an existing timer to a new time
func (s *Scheduler) Reschedule(ctx context.Context, id string, at time.Time) {
	s.Cancel(id)
	s.Schedule(ctx, id, at)
}

// Armed reports how many timers are currently armed
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Trigger runs the delivery path for one reminder. The store transition is
// the gate: only the caller that wins it announces, so concurrent triggers
// for the same id collapse to a single delivery.
func (s *Scheduler) Trigger(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("id", id).Msg("Recovered panic in reminder delivery")
		}
	}()

	r, err := s.store.Get(ctx, id)
	if err != nil {
		// Already deleted, or a racing purge: nothing to deliver
		s.log.Debug().Err(err).Str("id", id).Msg("Reminder not found at trigger time")
		return
	}

	msg := s.message(r)
	won, err := s.store.MarkTriggered(ctx, id, msg)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to mark reminder triggered")
	}
	if !won {
		return
	}

	s.log.Info().Str("id", id).Str("task", r.Task).Msg("Reminder triggered")
	s.deliver(ctx, r, msg)

	// A recurring reminder stays active with an advanced trigger time;
	// re-arm it for the next occurrence.
	if r.IsRecurring() {
		if next, err := s.store.Get(ctx, id); err == nil && next.Status == models.StatusActive {
			s.Schedule(ctx, id, next.TriggerTime)
		}
	}
}

// loadExisting arms timers for every active reminder; overdue ones are
// delivered immediately. Required on startup because timer handles do not
// survive a restart.
func (s *Scheduler) loadExisting(ctx context.Context) {
	active, err := s.store.GetActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load existing reminders")
		return
	}

	armed := 0
	now := time.Now()
	for _, r := range active {
		if r.TriggerTime.After(now) {
			s.Schedule(ctx, r.ID, r.TriggerTime)
			armed++
		} else {
			s.log.Info().Str("id", r.ID).Str("task", r.Task).Msg("Found overdue reminder")
			go s.Trigger(ctx, r.ID)
		}
	}
	s.log.Info().Int("armed", armed).Int("active", len(active)).Msg("Loaded existing reminders")
}

// watch is the safety net: it periodically re-scans the store for active
// reminders that are due but have no armed timer (added behind the
// scheduler's back) or whose timer should have fired already (missed
// wake-ups after sleep/resume), and delivers them.
func (s *Scheduler) watch(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	lastPurge := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.notifyCh:
		}

		s.scan(ctx)

		if time.Since(lastPurge) >= s.purgeInterval {
			lastPurge = time.Now()
			if _, err := s.store.Purge(ctx, lastPurge); err != nil {
				s.log.Error().Err(err).Msg("Retention sweep failed")
			}
		}
	}
}

func (s *Scheduler) scan(ctx context.Context) {
	now := time.Now()
	due, err := s.store.GetDue(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get due reminders")
		return
	}

	for _, r := range due {
		s.mu.Lock()
		deadline, armed := s.deadlines[r.ID]
		s.mu.Unlock()

		if !armed {
			s.log.Info().Str("id", r.ID).Str("task", r.Task).Msg("Found unscheduled due reminder")
			s.Trigger(ctx, r.ID)
		} else if deadline.Before(now) {
			// Timer should have fired by now
			s.log.Info().Str("id", r.ID).Str("task", r.Task).Msg("Triggering overdue reminder")
			s.clearTimerStop(r.ID)
			s.Trigger(ctx, r.ID)
		}
	}
}

func (s *Scheduler) clearTimer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
	delete(s.deadlines, id)
}

func (s *Scheduler) clearTimerStop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
		delete(s.deadlines, id)
	}
}
