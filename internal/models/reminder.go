package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a reminder.
type Status string

const (
	StatusActive    Status = "active"
	StatusTriggered Status = "triggered"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Recurrence describes how a reminder repeats after it fires.
type Recurrence string

const (
	RecurOnce    Recurrence = "once"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Context carries free-form metadata used only for message formatting,
// never for scheduling decisions.
type Context struct {
	Language string `json:"language"`
	Urgency  string `json:"urgency"`
	Category string `json:"category"`
}

type Reminder struct {
	ID              string     `json:"id"`
	Task            string     `json:"task"`
	TriggerTime     time.Time  `json:"trigger_time"`
	OriginalRequest string     `json:"original_request"`
	Recurrence      Recurrence `json:"type"`
	RecurrenceRule  string     `json:"recurrence_rule,omitempty"` // optional RFC 5545 RRULE
	Context         Context    `json:"context"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	TriggeredAt     *time.Time `json:"triggered_at,omitempty"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
}

// IsRecurring returns true if this reminder fires more than once
func (r *Reminder) IsRecurring() bool {
	if r.RecurrenceRule != "" {
		return true
	}
	return r.Recurrence != "" && r.Recurrence != RecurOnce
}

// IsDue reports whether the reminder is eligible to fire at the given time
func (r *Reminder) IsDue(now time.Time) bool {
	return r.Status == StatusActive && !r.TriggerTime.After(now)
}

// TriggeredEvent is an entry in the secondary triggered-event log. It records
// the generated message so a consumer can still announce a reminder whose
// record has already left the active state.
type TriggeredEvent struct {
	ID          string    `json:"id"`
	TriggeredAt time.Time `json:"triggered_at"`
	Message     string    `json:"message_generated"`
}

// Settings are persisted alongside the reminders themselves
type Settings struct {
	VoiceReminders  bool   `json:"voice_reminders"`
	SmartMessages   bool   `json:"smart_messages"`
	DefaultLanguage string `json:"default_language"`
	RetentionDays   int    `json:"retention_days"`
}

func DefaultSettings() Settings {
	return Settings{
		VoiceReminders:  false,
		SmartMessages:   true,
		DefaultLanguage: "hinglish",
		RetentionDays:   7,
	}
}

// CategorizeTask assigns a coarse category used for message formatting
func CategorizeTask(task string) string {
	t := strings.ToLower(task)

	switch {
	case containsAny(t, "call", "phone", "contact"):
		return "communication"
	case containsAny(t, "medicine", "pill", "doctor", "health"):
		return "health"
	case containsAny(t, "meeting", "work", "office", "project"):
		return "work"
	case containsAny(t, "wake", "alarm", "sleep", "morning"):
		return "personal"
	case containsAny(t, "eat", "food", "lunch", "dinner", "khana"):
		return "meal"
	default:
		return "general"
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
