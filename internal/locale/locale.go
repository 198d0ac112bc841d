// Package locale formats user-facing reminder messages in the supported
// languages. Everything the engine says to a user goes through here, so the
// conversational layers never see raw errors or English-only strings.
package locale

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxalabs/voxa/internal/models"
)

const (
	English  = "english"
	Hinglish = "hinglish"
)

// Normalize maps arbitrary language tags onto a supported language
func Normalize(language string) string {
	if strings.EqualFold(language, English) {
		return English
	}
	return Hinglish
}

// CannotUnderstand is the extraction-failure reply
func CannotUnderstand(language string) string {
	if Normalize(language) == English {
		return "Sorry, I couldn't understand the time or task. Please try again."
	}
	return "Sorry, time ya task samajh nahi aaya. Dobara try karo."
}

// AddFailed is the persistence-failure reply for adds
func AddFailed(language string) string {
	if Normalize(language) == English {
		return "Sorry, there was an error setting up your reminder."
	}
	return "Sorry, reminder set karne mein error aa gaya."
}

// Confirmation acknowledges a newly added reminder
func Confirmation(task string, at time.Time, language string, now time.Time) string {
	when := FormatTimeNaturally(at, language, now)
	if Normalize(language) == English {
		return fmt.Sprintf("Reminder set! I'll remind you to %s %s.", task, when)
	}
	return fmt.Sprintf("Reminder set kar diya! %s %s ka yaad dila dunga.", when, task)
}

// Announcement is the message spoken when a reminder fires
func Announcement(task, language string) string {
	if Normalize(language) == English {
		return fmt.Sprintf("Reminder! It's time to %s.", task)
	}
	return fmt.Sprintf("Reminder! %s ka time ho gaya.", task)
}

// Cancelled confirms a cancellation
func Cancelled(task, language string) string {
	if Normalize(language) == English {
		return fmt.Sprintf("Cancelled reminder: %s", task)
	}
	return fmt.Sprintf("Reminder cancel kar diya: %s", task)
}

// CancelNotFound reports a failed keyword cancellation
func CancelNotFound(language string) string {
	if Normalize(language) == English {
		return "I couldn't find a reminder matching that description."
	}
	return "Us description ka koi reminder nahi mila."
}

// NoActiveReminders is the empty-list message
func NoActiveReminders(language string) string {
	if Normalize(language) == English {
		return "You don't have any active reminders."
	}
	return "Aapke paas koi active reminders nahi hain."
}

// ReminderList formats the active reminders for a list command
func ReminderList(reminders []*models.Reminder, language string, now time.Time) string {
	if len(reminders) == 0 {
		return NoActiveReminders(language)
	}

	var sb strings.Builder
	if Normalize(language) == English {
		sb.WriteString(fmt.Sprintf("You have %d active reminders:\n", len(reminders)))
	} else {
		sb.WriteString(fmt.Sprintf("Aapke paas %d active reminders hain:\n", len(reminders)))
	}

	for i, r := range reminders {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, r.Task, FormatTimeNaturally(r.TriggerTime, language, now)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NoUpcoming reports that nothing is scheduled in the future
func NoUpcoming(language string) string {
	if Normalize(language) == English {
		return "No upcoming reminders."
	}
	return "Koi upcoming reminders nahi hain."
}

// Imminent reports a reminder about to fire
func Imminent(task, language string) string {
	if Normalize(language) == English {
		return fmt.Sprintf("Reminder for '%s' should trigger any moment now!", task)
	}
	return fmt.Sprintf("'%s' ka reminder abhi trigger hone wala hai!", task)
}

// Remaining formats the time until the nearest reminder fires
func Remaining(task string, d time.Duration, language string) string {
	total := int(d.Seconds())
	english := Normalize(language) == English

	switch {
	case total < 60:
		if english {
			return fmt.Sprintf("Next reminder: '%s' in %d seconds", task, total)
		}
		return fmt.Sprintf("Agla reminder: '%s' - %d seconds baaki", task, total)
	case total < 3600:
		m, s := total/60, total%60
		if english {
			return fmt.Sprintf("Next reminder: '%s' in %dm %ds", task, m, s)
		}
		return fmt.Sprintf("Agla reminder: '%s' - %d minute %d second baaki", task, m, s)
	default:
		h, m := total/3600, (total%3600)/60
		if english {
			return fmt.Sprintf("Next reminder: '%s' in %dh %dm", task, h, m)
		}
		return fmt.Sprintf("Agla reminder: '%s' - %d ghante %d minute baaki", task, h, m)
	}
}

// FormatTimeNaturally renders an absolute time relative to now
func FormatTimeNaturally(at time.Time, language string, now time.Time) string {
	diff := at.Sub(now)
	days := int(diff.Hours() / 24)
	english := Normalize(language) == English

	if english {
		switch {
		case days == 0 && diff < time.Hour:
			return fmt.Sprintf("in %d minutes", int(diff.Minutes()))
		case days == 0:
			return fmt.Sprintf("at %s today", at.Format("3:04 PM"))
		case days == 1:
			return fmt.Sprintf("tomorrow at %s", at.Format("3:04 PM"))
		default:
			return fmt.Sprintf("on %s", at.Format("Monday, January 2 at 3:04 PM"))
		}
	}

	switch {
	case days == 0 && diff < time.Hour:
		return fmt.Sprintf("%d minute mein", int(diff.Minutes()))
	case days == 0:
		return fmt.Sprintf("aaj %s baje", at.Format("3:04"))
	case days == 1:
		return fmt.Sprintf("kal %s baje", at.Format("3:04"))
	default:
		return fmt.Sprintf("%s ko %s baje", at.Format("Monday"), at.Format("3:04"))
	}
}

// StatusError is the generic cannot-check-right-now reply
func StatusError(language string) string {
	if Normalize(language) == English {
		return "Sorry, couldn't check reminder status right now."
	}
	return "Sorry, abhi reminder status check nahi kar sakte."
}
