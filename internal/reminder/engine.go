package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/extract"
	"github.com/voxalabs/voxa/internal/locale"
	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/sink"
	"github.com/voxalabs/voxa/internal/storage"
)

// Engine bundles the store, scheduler, supervising watcher and service
// facade behind one handle that consumers receive explicitly. Deliveries
// fan out to the attached sinks; a failing sink is logged and skipped, it
// never blocks the others or the engine.
type Engine struct {
	Store     storage.Store
	Scheduler *Scheduler
	Service   *Service
	Watcher   *Watcher

	sinks []sink.Sink
	log   zerolog.Logger
}

// Options configures an Engine
type Options struct {
	Extractors      extract.Chain
	Sinks           []sink.Sink
	DefaultLanguage string
	WatchInterval   time.Duration
}

func NewEngine(store storage.Store, opts Options, log zerolog.Logger) *Engine {
	e := &Engine{
		Store: store,
		sinks: opts.Sinks,
		log:   log,
	}

	message := func(r *models.Reminder) string {
		if e.Settings().SmartMessages {
			return locale.SmartAnnouncement(r.Task, r.Context)
		}
		return locale.Announcement(r.Task, r.Context.Language)
	}
	e.Scheduler = NewScheduler(store, e.fanOut, message, log)
	e.Watcher = NewWatcher(store, e.Scheduler, opts.WatchInterval, log)
	e.Service = NewService(store, e.Scheduler, opts.Extractors, opts.DefaultLanguage, log)

	return e
}

// Settings returns the persisted user settings when the store carries
// them, defaults otherwise
func (e *Engine) Settings() models.Settings {
	if ss, ok := e.Store.(storage.SettingsStore); ok {
		return ss.Settings()
	}
	return models.DefaultSettings()
}

// UpdateSettings persists new user settings. False if the store does not
// carry settings.
func (e *Engine) UpdateSettings(settings models.Settings) (bool, error) {
	ss, ok := e.Store.(storage.SettingsStore)
	if !ok {
		return false, nil
	}
	return true, ss.UpdateSettings(settings)
}

// Start arms existing reminders, replays announcements that never reached
// the user, and launches the background loops
func (e *Engine) Start(ctx context.Context) {
	e.Scheduler.Start(ctx)
	e.replayPending(ctx)
	e.Watcher.Start(ctx)
}

// Stop shuts the loops down and flushes the store
func (e *Engine) Stop() {
	e.Watcher.Stop()
	e.Scheduler.Stop()
	if err := e.Store.Close(); err != nil {
		e.log.Error().Err(err).Msg("Failed to close reminder store")
	}
}

// replayPending re-announces reminders that won their triggered transition
// before a previous shutdown but were never acknowledged. The recorded
// message is reused so the replay says exactly what the lost delivery
// would have.
func (e *Engine) replayPending(ctx context.Context) {
	events, err := e.Store.PendingTriggered(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("Failed to load pending announcements")
		return
	}

	for _, ev := range events {
		r, err := e.Store.Get(ctx, ev.ID)
		if err != nil {
			continue
		}
		e.log.Info().Str("id", ev.ID).Time("triggered_at", ev.TriggeredAt).Msg("Replaying unacknowledged reminder")
		e.fanOut(ctx, r, ev.Message)
	}
}

func (e *Engine) fanOut(ctx context.Context, r *models.Reminder, message string) {
	a := sink.Announcement{Reminder: r, Message: message}
	for _, s := range e.sinks {
		if err := s.Announce(ctx, a); err != nil {
			e.log.Error().Err(err).Str("sink", s.Name()).Str("id", r.ID).Msg("Announcement sink failed")
		}
	}
}
