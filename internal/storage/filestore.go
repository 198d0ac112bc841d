package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/recur"
)

// document is the on-disk layout. It must tolerate being hand-edited or
// absent; missing sections are synthesized with defaults on load.
type document struct {
	Reminders       []*models.Reminder      `json:"reminders"`
	ActiveReminders []models.TriggeredEvent `json:"active_reminders"`
	Settings        models.Settings         `json:"settings"`
}

// FileStore keeps the full reminder document in memory and writes it back
// synchronously after every mutation. A single lock serializes all
// transitions system-wide.
type FileStore struct {
	mu   sync.Mutex
	path string
	doc  document
	log  zerolog.Logger
}

// OpenFile loads (or initializes) the reminder document at path
func OpenFile(path string, log zerolog.Logger) (*FileStore, error) {
	s := &FileStore{
		path: path,
		doc: document{
			Reminders:       []*models.Reminder{},
			ActiveReminders: []models.TriggeredEvent{},
			Settings:        models.DefaultSettings(),
		},
		log: log,
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read reminder store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil {
		s.doc.Reminders = doc.Reminders
		s.doc.ActiveReminders = doc.ActiveReminders
		if doc.Settings.DefaultLanguage != "" {
			s.doc.Settings = doc.Settings
		}
	} else {
		// Legacy layout: a bare list of reminders
		var list []*models.Reminder
		if err := json.Unmarshal(data, &list); err != nil {
			s.log.Warn().Str("path", s.path).Msg("Unknown reminder store format, using defaults")
		} else {
			s.doc.Reminders = list
		}
	}

	if s.doc.Reminders == nil {
		s.doc.Reminders = []*models.Reminder{}
	}
	if s.doc.ActiveReminders == nil {
		s.doc.ActiveReminders = []models.TriggeredEvent{}
	}
	if s.doc.Settings.RetentionDays <= 0 {
		s.doc.Settings.RetentionDays = models.DefaultSettings().RetentionDays
	}

	s.purgeLocked(time.Now())
	return nil
}

// save writes the document atomically. Callers hold the lock.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reminder store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Failed to save reminders")
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("Failed to save reminders")
		return err
	}
	return nil
}

func (s *FileStore) Create(_ context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.NewString()[:8]
	r.Status = models.StatusActive
	r.CreatedAt = time.Now()
	if r.Recurrence == "" {
		r.Recurrence = models.RecurOnce
	}
	if r.Context.Urgency == "" {
		r.Context.Urgency = "medium"
	}
	if r.Context.Language == "" {
		r.Context.Language = s.doc.Settings.DefaultLanguage
	}
	r.Context.Category = models.CategorizeTask(r.Task)

	// The document keeps its own copy so later transitions never reach
	// into a record the caller still holds.
	c := *r
	s.doc.Reminders = append(s.doc.Reminders, &c)
	return s.save()
}

func (s *FileStore) Get(_ context.Context, id string) (*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

func (s *FileStore) GetActive(_ context.Context) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(), nil
}

func (s *FileStore) GetDue(_ context.Context, now time.Time) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*models.Reminder
	for _, r := range s.doc.Reminders {
		if r.IsDue(now) {
			c := *r
			due = append(due, &c)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].TriggerTime.Before(due[j].TriggerTime) })
	return due, nil
}

func (s *FileStore) MarkTriggered(_ context.Context, id, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil || r.Status != models.StatusActive {
		return false, nil
	}

	now := time.Now()
	s.doc.ActiveReminders = append(s.doc.ActiveReminders, models.TriggeredEvent{
		ID:          id,
		TriggeredAt: now,
		Message:     message,
	})

	// A recurring reminder advances to its next occurrence and stays
	// active; identity and history persist, only the trigger time moves.
	// An exhausted or broken rule has no next occurrence, so the record
	// retires like a one-shot instead of staying due forever.
	advanced := false
	if r.IsRecurring() {
		if next, ok := recur.Next(r.Recurrence, r.RecurrenceRule, r.TriggerTime); ok {
			r.TriggerTime = next
			advanced = true
		}
	}
	if !advanced {
		r.Status = models.StatusTriggered
		r.TriggeredAt = &now
	}

	return true, s.save()
}

func (s *FileStore) PendingTriggered(_ context.Context) ([]models.TriggeredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []models.TriggeredEvent
	for _, e := range s.doc.ActiveReminders {
		r := s.findLocked(e.ID)
		if r != nil && r.Status == models.StatusTriggered {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (s *FileStore) Acknowledge(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil || r.Status != models.StatusTriggered {
		return false, nil
	}

	now := time.Now()
	r.Status = models.StatusCompleted
	r.AcknowledgedAt = &now
	return true, s.save()
}

func (s *FileStore) Cancel(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findLocked(id)
	if r == nil || r.Status != models.StatusActive {
		return false, nil
	}

	r.Status = models.StatusCancelled
	return true, s.save()
}

func (s *FileStore) CancelByKeyword(_ context.Context, keyword string) (*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kw := strings.ToLower(keyword)
	for _, r := range s.doc.Reminders {
		if r.Status == models.StatusActive && strings.Contains(strings.ToLower(r.Task), kw) {
			r.Status = models.StatusCancelled
			c := *r
			return &c, s.save()
		}
	}
	return nil, nil
}

func (s *FileStore) Purge(_ context.Context, now time.Time) (PurgeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.purgeLocked(now)
	return stats, s.save()
}

// purgeLocked applies the retention policy:
//   - completed records go immediately (already delivered and acknowledged)
//   - triggered records whose acknowledge never arrived go after a short
//     grace window
//   - cancelled and ancient records go after the retention window
//   - active records overdue past the stuck threshold are force-completed
//     so they stop being retried forever; they are removed on a later sweep
func (s *FileStore) purgeLocked(now time.Time) PurgeStats {
	var stats PurgeStats
	retention := time.Duration(s.doc.Settings.RetentionDays) * 24 * time.Hour

	kept := s.doc.Reminders[:0]
	for _, r := range s.doc.Reminders {
		remove := false
		switch r.Status {
		case models.StatusCompleted:
			remove = true
		case models.StatusTriggered:
			remove = r.TriggeredAt != nil && now.Sub(*r.TriggeredAt) > TriggeredGraceWindow
		case models.StatusCancelled:
			remove = now.Sub(r.CreatedAt) > retention
		case models.StatusActive:
			remove = now.Sub(r.CreatedAt) > retention && now.After(r.TriggerTime)
		}
		if remove {
			stats.Removed++
			continue
		}
		kept = append(kept, r)
	}
	s.doc.Reminders = kept

	// Stuck-reminder recovery
	for _, r := range s.doc.Reminders {
		if r.Status == models.StatusActive && now.Sub(r.TriggerTime) > StuckThreshold {
			r.Status = models.StatusCompleted
			stats.Stuck++
			s.log.Info().Str("id", r.ID).Str("task", r.Task).Msg("Force-completed stuck reminder")
		}
	}

	// Trim the triggered-event log with the same retention window
	keptEvents := s.doc.ActiveReminders[:0]
	for _, e := range s.doc.ActiveReminders {
		if now.Sub(e.TriggeredAt) < retention {
			keptEvents = append(keptEvents, e)
		}
	}
	s.doc.ActiveReminders = keptEvents

	return stats
}

func (s *FileStore) Summary(_ context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeLocked()
	today := 0
	now := time.Now()
	for _, r := range active {
		if sameDay(r.TriggerTime, now) {
			today++
		}
	}

	sample := active
	if len(sample) > SummarySampleSize {
		sample = sample[:SummarySampleSize]
	}

	return &Summary{
		TotalActive:   len(active),
		UpcomingToday: today,
		Sample:        sample,
	}, nil
}

// Settings returns the persisted settings section
func (s *FileStore) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Settings
}

// UpdateSettings replaces the settings section
func (s *FileStore) UpdateSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Settings = settings
	return s.save()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *FileStore) findLocked(id string) *models.Reminder {
	for _, r := range s.doc.Reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *FileStore) activeLocked() []*models.Reminder {
	var active []*models.Reminder
	for _, r := range s.doc.Reminders {
		if r.Status == models.StatusActive {
			c := *r
			active = append(active, &c)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].TriggerTime.Before(active[j].TriggerTime) })
	return active
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
