package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxalabs/voxa/internal/extract"
	"github.com/voxalabs/voxa/internal/locale"
	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/sink"
	"github.com/voxalabs/voxa/internal/storage"
)

type recordingSink struct {
	fail  bool
	count int
	last  string
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Announce(_ context.Context, a sink.Announcement) error {
	s.count++
	s.last = a.Message
	if s.fail {
		return assert.AnError
	}
	return nil
}

func newTestService(t *testing.T) (*Service, storage.Store, *deliveryRecorder) {
	t.Helper()
	store, err := storage.OpenFile(filepath.Join(t.TempDir(), "reminders.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := &deliveryRecorder{}
	message := func(r *models.Reminder) string { return locale.Announcement(r.Task, r.Context.Language) }
	sched := NewScheduler(store, rec.deliver, message, zerolog.Nop())

	extractors := extract.Chain{extract.NewPatternExtractor()}
	svc := NewService(store, sched, extractors, locale.English, zerolog.Nop())
	return svc, store, rec
}

func TestAddFromTextCreatesAndConfirms(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	ok, msg := svc.AddFromText(ctx, "remind me in 2 minutes to call mom", "english")
	assert.True(t, ok)
	assert.Contains(t, msg, "call mom")
	assert.Contains(t, msg, "2 minutes")

	active, err := store.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "call mom", active[0].Task)
	assert.Equal(t, "remind me in 2 minutes to call mom", active[0].OriginalRequest)
	assert.Equal(t, locale.English, active[0].Context.Language)
}

func TestAddFromTextRejectsUnparseable(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	ok, msg := svc.AddFromText(ctx, "what a lovely day", "english")
	assert.False(t, ok)
	assert.Equal(t, locale.CannotUnderstand(locale.English), msg)

	active, err := store.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAddFromTextHinglishConfirmation(t *testing.T) {
	svc, _, _ := newTestService(t)

	ok, msg := svc.AddFromText(context.Background(), "paanch minute baad yaad dilana ki dawai leni hai", "hinglish")
	assert.True(t, ok)
	assert.Contains(t, msg, "Reminder set kar diya")
	assert.Contains(t, msg, "dawai leni hai")
}

func TestCancelFromText(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ok, _ := svc.AddFromText(ctx, "remind me in 30 minutes to feed the cat", "english")
	require.True(t, ok)

	ok, msg := svc.CancelFromText(ctx, "cat", "english")
	assert.True(t, ok)
	assert.Contains(t, msg, "feed the cat")

	ok, msg = svc.CancelFromText(ctx, "cat", "english")
	assert.False(t, ok)
	assert.Equal(t, locale.CancelNotFound(locale.English), msg)
}

func TestListActiveEmptyAndPopulated(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, locale.NoActiveReminders(locale.English), svc.ListActive(ctx, "english"))

	ok, _ := svc.AddFromText(ctx, "remind me in 10 minutes to stretch", "english")
	require.True(t, ok)

	list := svc.ListActive(ctx, "english")
	assert.Contains(t, list, "1 active reminders")
	assert.Contains(t, list, "stretch")
}

func TestRemainingTime(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, locale.NoActiveReminders(locale.English), svc.RemainingTime(ctx, "english"))

	r := &models.Reminder{Task: "water plants", TriggerTime: time.Now().Add(10 * time.Minute)}
	require.NoError(t, store.Create(ctx, r))

	msg := svc.RemainingTime(ctx, "english")
	assert.Contains(t, msg, "water plants")

	// Only overdue reminders left
	ok, err := store.Cancel(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, ok)

	overdue := &models.Reminder{Task: "late thing", TriggerTime: time.Now().Add(-time.Minute)}
	require.NoError(t, store.Create(ctx, overdue))
	assert.Equal(t, locale.NoUpcoming(locale.English), svc.RemainingTime(ctx, "english"))
}

func TestServiceCancelByID(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	r := &models.Reminder{Task: "one off", TriggerTime: time.Now().Add(time.Hour)}
	require.NoError(t, svc.Add(ctx, r))

	assert.True(t, svc.Cancel(ctx, r.ID))
	assert.False(t, svc.Cancel(ctx, r.ID))

	active, err := store.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestServiceAcknowledge(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	r := &models.Reminder{Task: "ack me", TriggerTime: time.Now().Add(-time.Second)}
	require.NoError(t, store.Create(ctx, r))

	assert.False(t, svc.Acknowledge(ctx, r.ID))

	won, err := store.MarkTriggered(ctx, r.ID, "go")
	require.NoError(t, err)
	require.True(t, won)

	assert.True(t, svc.Acknowledge(ctx, r.ID))
	assert.False(t, svc.Acknowledge(ctx, r.ID))
}

func TestEngineFanOutDeliversToAllSinks(t *testing.T) {
	store, err := storage.OpenFile(filepath.Join(t.TempDir(), "reminders.json"), zerolog.Nop())
	require.NoError(t, err)

	a := &recordingSink{}
	b := &recordingSink{fail: true}
	c := &recordingSink{}

	engine := NewEngine(store, Options{
		Extractors:      extract.Chain{extract.NewPatternExtractor()},
		Sinks:           []sink.Sink{a, b, c},
		DefaultLanguage: locale.English,
	}, zerolog.Nop())
	ctx := context.Background()

	r := &models.Reminder{Task: "fan out", TriggerTime: time.Now().Add(-time.Second)}
	require.NoError(t, store.Create(ctx, r))

	engine.Scheduler.Trigger(ctx, r.ID)

	assert.Equal(t, 1, a.count)
	assert.Equal(t, 1, b.count)
	assert.Equal(t, 1, c.count)

	engine.Stop()
}

func TestEngineSmartMessagesFollowSettings(t *testing.T) {
	store, err := storage.OpenFile(filepath.Join(t.TempDir(), "reminders.json"), zerolog.Nop())
	require.NoError(t, err)

	out := &recordingSink{}
	engine := NewEngine(store, Options{
		Sinks:           []sink.Sink{out},
		DefaultLanguage: locale.English,
	}, zerolog.Nop())
	defer engine.Stop()
	ctx := context.Background()

	// Smart messages are on by default: urgency picks the template
	urgent := &models.Reminder{
		Task:        "submit the report",
		TriggerTime: time.Now().Add(-time.Second),
		Context:     models.Context{Language: locale.English, Urgency: "high"},
	}
	require.NoError(t, store.Create(ctx, urgent))
	engine.Scheduler.Trigger(ctx, urgent.ID)
	assert.Equal(t, locale.SmartAnnouncement("submit the report", urgent.Context), out.last)
	assert.Contains(t, out.last, "time-sensitive")

	// Turning the setting off falls back to the plain announcement
	settings := engine.Settings()
	settings.SmartMessages = false
	ok, err := engine.UpdateSettings(settings)
	require.NoError(t, err)
	require.True(t, ok)

	plain := &models.Reminder{
		Task:        "water plants",
		TriggerTime: time.Now().Add(-time.Second),
		Context:     models.Context{Language: locale.English},
	}
	require.NoError(t, store.Create(ctx, plain))
	engine.Scheduler.Trigger(ctx, plain.ID)
	assert.Equal(t, locale.Announcement("water plants", locale.English), out.last)
}

func TestEngineReplaysUnacknowledgedOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	store, err := storage.OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	r := &models.Reminder{Task: "missed announcement", TriggerTime: time.Now().Add(-time.Second)}
	require.NoError(t, store.Create(ctx, r))
	won, err := store.MarkTriggered(ctx, r.ID, "the words that were lost")
	require.NoError(t, err)
	require.True(t, won)
	require.NoError(t, store.Close())

	// Fresh host: the recorded message reaches the sinks again
	reopened, err := storage.OpenFile(path, zerolog.Nop())
	require.NoError(t, err)

	out := &recordingSink{}
	engine := NewEngine(reopened, Options{
		Sinks:           []sink.Sink{out},
		DefaultLanguage: locale.English,
	}, zerolog.Nop())
	engine.Start(ctx)
	defer engine.Stop()

	assert.Equal(t, 1, out.count)
	assert.Equal(t, "the words that were lost", out.last)

	// Acknowledged reminders are not replayed on the next start
	require.True(t, engine.Service.Acknowledge(ctx, r.ID))
	pending, err := reopened.PendingTriggered(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
