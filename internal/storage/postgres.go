package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/database"
	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/recur"
)

const reminderColumns = `id, task, trigger_time, original_request, type, recurrence_rule,
	 language, urgency, category, status, created_at, triggered_at, acknowledged_at`

// PostgresStore implements Store on top of pgx. The compare-and-set
// transitions become conditional UPDATEs gated on the current status, so
// the database enforces the at-most-one-winner rule instead of an
// in-process lock.
type PostgresStore struct {
	db            *database.DB
	retentionDays int
	log           zerolog.Logger
}

func OpenPostgres(ctx context.Context, db *database.DB, retentionDays int, log zerolog.Logger) (*PostgresStore, error) {
	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, retentionDays: retentionDays, log: log}, nil
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Reminder) error {
	r.ID = uuid.NewString()[:8]
	r.Status = models.StatusActive
	if r.Recurrence == "" {
		r.Recurrence = models.RecurOnce
	}
	if r.Context.Urgency == "" {
		r.Context.Urgency = "medium"
	}
	r.Context.Category = models.CategorizeTask(r.Task)

	return s.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (id, task, trigger_time, original_request, type, recurrence_rule, language, urgency, category, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
		 RETURNING created_at`,
		r.ID, r.Task, r.TriggerTime, r.OriginalRequest, r.Recurrence, r.RecurrenceRule,
		r.Context.Language, r.Context.Urgency, r.Context.Category,
	).Scan(&r.CreatedAt)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Reminder, error) {
	row := s.db.Pool.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id)
	r, err := scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) GetActive(ctx context.Context) ([]*models.Reminder, error) {
	return s.query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE status = 'active' ORDER BY trigger_time ASC`)
}

func (s *PostgresStore) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	return s.query(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status = 'active' AND trigger_time <= $1
		 ORDER BY trigger_time ASC`, now)
}

func (s *PostgresStore) MarkTriggered(ctx context.Context, id, message string) (bool, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// Claim the reminder. Losing a concurrent race shows up as zero rows.
	var task string
	var rec models.Recurrence
	var rule string
	var triggerTime time.Time
	err = tx.QueryRow(ctx,
		`UPDATE reminders SET status = 'triggered', triggered_at = $2
		 WHERE id = $1 AND status = 'active'
		 RETURNING task, type, recurrence_rule, trigger_time`,
		id, time.Now(),
	).Scan(&task, &rec, &rule, &triggerTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO triggered_events (reminder_id, message_generated) VALUES ($1, $2)`,
		id, message,
	); err != nil {
		return false, err
	}

	if rec != models.RecurOnce && rec != "" || rule != "" {
		if next, ok := recur.Next(rec, rule, triggerTime); ok {
			if _, err := tx.Exec(ctx,
				`UPDATE reminders SET status = 'active', triggered_at = NULL, trigger_time = $2 WHERE id = $1`,
				id, next,
			); err != nil {
				return false, err
			}
		}
	}

	return true, tx.Commit(ctx)
}

func (s *PostgresStore) PendingTriggered(ctx context.Context) ([]models.TriggeredEvent, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT e.reminder_id, e.triggered_at, e.message_generated
		 FROM triggered_events e
		 JOIN reminders r ON r.id = e.reminder_id
		 WHERE r.status = 'triggered'
		 ORDER BY e.triggered_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []models.TriggeredEvent
	for rows.Next() {
		var e models.TriggeredEvent
		if err := rows.Scan(&e.ID, &e.TriggeredAt, &e.Message); err != nil {
			return nil, err
		}
		pending = append(pending, e)
	}
	return pending, rows.Err()
}

func (s *PostgresStore) Acknowledge(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE reminders SET status = 'completed', acknowledged_at = $2
		 WHERE id = $1 AND status = 'triggered'`,
		id, time.Now(),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Cancel(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE reminders SET status = 'cancelled' WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) CancelByKeyword(ctx context.Context, keyword string) (*models.Reminder, error) {
	row := s.db.Pool.QueryRow(ctx,
		`UPDATE reminders SET status = 'cancelled'
		 WHERE id = (
		     SELECT id FROM reminders
		     WHERE status = 'active' AND task ILIKE $1
		     ORDER BY created_at ASC LIMIT 1
		 )
		 RETURNING `+reminderColumns,
		"%"+strings.TrimSpace(keyword)+"%")
	r, err := scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

func (s *PostgresStore) Purge(ctx context.Context, now time.Time) (PurgeStats, error) {
	var stats PurgeStats
	retention := time.Duration(s.retentionDays) * 24 * time.Hour

	tag, err := s.db.Pool.Exec(ctx,
		`DELETE FROM reminders
		 WHERE status = 'completed'
		    OR (status = 'triggered' AND triggered_at IS NOT NULL AND triggered_at < $1)
		    OR (status = 'cancelled' AND created_at < $2)
		    OR (status = 'active' AND created_at < $2 AND trigger_time < $3)`,
		now.Add(-TriggeredGraceWindow), now.Add(-retention), now,
	)
	if err != nil {
		return stats, err
	}
	stats.Removed = int(tag.RowsAffected())

	tag, err = s.db.Pool.Exec(ctx,
		`UPDATE reminders SET status = 'completed'
		 WHERE status = 'active' AND trigger_time < $1`,
		now.Add(-StuckThreshold),
	)
	if err != nil {
		return stats, err
	}
	stats.Stuck = int(tag.RowsAffected())

	if _, err := s.db.Pool.Exec(ctx,
		`DELETE FROM triggered_events WHERE triggered_at < $1`,
		now.Add(-retention),
	); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *PostgresStore) Summary(ctx context.Context) (*Summary, error) {
	active, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := 0
	for _, r := range active {
		if sameDay(r.TriggerTime, now) {
			today++
		}
	}

	sample := active
	if len(sample) > SummarySampleSize {
		sample = sample[:SummarySampleSize]
	}

	return &Summary{TotalActive: len(active), UpcomingToday: today, Sample: sample}, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.Reminder, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func scanReminder(row pgx.Row) (*models.Reminder, error) {
	r := &models.Reminder{}
	err := row.Scan(
		&r.ID, &r.Task, &r.TriggerTime, &r.OriginalRequest, &r.Recurrence, &r.RecurrenceRule,
		&r.Context.Language, &r.Context.Urgency, &r.Context.Category,
		&r.Status, &r.CreatedAt, &r.TriggeredAt, &r.AcknowledgedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
