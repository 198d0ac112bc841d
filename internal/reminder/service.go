package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/extract"
	"github.com/voxalabs/voxa/internal/locale"
	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/storage"
)

// Service translates conversational commands into store and scheduler
// operations and renders user-facing text. Every method returns a localized
// message; failures never surface as errors to the chat loop or HTTP
// handlers.
type Service struct {
	store       storage.Store
	sched       *Scheduler
	extractors  extract.Chain
	defaultLang string
	log         zerolog.Logger
}

func NewService(store storage.Store, sched *Scheduler, extractors extract.Chain, defaultLang string, log zerolog.Logger) *Service {
	return &Service{
		store:       store,
		sched:       sched,
		extractors:  extractors,
		defaultLang: defaultLang,
		log:         log,
	}
}

func (s *Service) language(language string) string {
	if language == "" {
		language = s.defaultLang
	}
	return locale.Normalize(language)
}

// AddFromText parses a natural-language request, persists the reminder and
// arms its timer. Returns (ok, confirmation or failure message).
func (s *Service) AddFromText(ctx context.Context, text, language string) (bool, string) {
	lang := s.language(language)
	now := time.Now()

	res, err := s.extractors.Extract(ctx, text, now)
	if err != nil {
		s.log.Warn().Err(err).Msg("Extraction failed")
	}
	if res == nil || res.Task == "" || res.TriggerTime.IsZero() {
		return false, locale.CannotUnderstand(lang)
	}

	r := &models.Reminder{
		Task:            res.Task,
		TriggerTime:     res.TriggerTime,
		OriginalRequest: text,
		Recurrence:      res.Recurrence,
		Context: models.Context{
			Language: lang,
			Urgency:  res.Urgency,
		},
	}
	if err := s.store.Create(ctx, r); err != nil {
		s.log.Error().Err(err).Msg("Failed to create reminder")
		return false, locale.AddFailed(lang)
	}

	s.sched.Schedule(ctx, r.ID, r.TriggerTime)
	s.log.Info().Str("id", r.ID).Str("task", r.Task).Time("at", r.TriggerTime).Msg("Reminder added")

	return true, locale.Confirmation(r.Task, r.TriggerTime, lang, now)
}

// Add persists an explicit reminder (HTTP create path) and arms its timer
func (s *Service) Add(ctx context.Context, r *models.Reminder) error {
	if r.Context.Language == "" {
		r.Context.Language = s.defaultLang
	}
	if err := s.store.Create(ctx, r); err != nil {
		return err
	}
	s.sched.Schedule(ctx, r.ID, r.TriggerTime)
	return nil
}

// CancelFromText cancels the first active reminder matching the keywords
func (s *Service) CancelFromText(ctx context.Context, keywords, language string) (bool, string) {
	lang := s.language(language)

	r, err := s.store.CancelByKeyword(ctx, keywords)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to cancel reminder by keyword")
		return false, locale.StatusError(lang)
	}
	if r == nil {
		return false, locale.CancelNotFound(lang)
	}

	s.sched.Cancel(r.ID)
	return true, locale.Cancelled(r.Task, lang)
}

// Cancel cancels a reminder by id
func (s *Service) Cancel(ctx context.Context, id string) bool {
	ok, err := s.store.Cancel(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to cancel reminder")
		return false
	}
	if ok {
		s.sched.Cancel(id)
	}
	return ok
}

// Acknowledge finalizes a triggered reminder as completed
func (s *Service) Acknowledge(ctx context.Context, id string) bool {
	ok, err := s.store.Acknowledge(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to acknowledge reminder")
		return false
	}
	return ok
}

// ListActive formats all active reminders, nearest first
func (s *Service) ListActive(ctx context.Context, language string) string {
	lang := s.language(language)

	active, err := s.store.GetActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list reminders")
		return locale.StatusError(lang)
	}
	return locale.ReminderList(active, lang, time.Now())
}

// RemainingTime reports the time until the nearest future reminder fires
func (s *Service) RemainingTime(ctx context.Context, language string) string {
	lang := s.language(language)

	active, err := s.store.GetActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to check remaining time")
		return locale.StatusError(lang)
	}
	if len(active) == 0 {
		return locale.NoActiveReminders(lang)
	}

	now := time.Now()
	var nearest *models.Reminder
	for _, r := range active {
		if r.TriggerTime.After(now) {
			if nearest == nil || r.TriggerTime.Before(nearest.TriggerTime) {
				nearest = r
			}
		}
	}
	if nearest == nil {
		return locale.NoUpcoming(lang)
	}

	d := nearest.TriggerTime.Sub(now)
	if d <= 0 {
		return locale.Imminent(nearest.Task, lang)
	}
	return locale.Remaining(nearest.Task, d, lang)
}

// Summary exposes the aggregate store view for status endpoints
func (s *Service) Summary(ctx context.Context) (*storage.Summary, error) {
	return s.store.Summary(ctx)
}
