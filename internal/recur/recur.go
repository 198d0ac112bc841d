// Package recur computes the next occurrence of a recurring reminder.
package recur

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/voxalabs/voxa/internal/models"
)

// Next returns the trigger time of the next occurrence after the current one.
// A custom RFC 5545 rule takes precedence over the simple recurrence type.
// The simple deltas are deliberately calendar-naive: "monthly" advances by
// 30 days, which drifts against real months.
func Next(rec models.Recurrence, rule string, current time.Time) (time.Time, bool) {
	if rule != "" {
		next, err := NextOccurrence(rule, current, current)
		if err == nil && next != nil {
			return *next, true
		}
		// Broken rules fall through to the simple type so the reminder
		// does not silently die.
	}

	switch rec {
	case models.RecurDaily:
		return current.Add(24 * time.Hour), true
	case models.RecurWeekly:
		return current.Add(7 * 24 * time.Hour), true
	case models.RecurMonthly:
		return current.Add(30 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// ParseRule parses an RFC 5545 RRULE string anchored at dtstart
func ParseRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	// Trigger times use timezone-naive local semantics; reinterpret the
	// clock values in the local zone before handing them to the rule.
	opt.Dtstart = time.Date(
		dtstart.Year(), dtstart.Month(), dtstart.Day(),
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), dtstart.Nanosecond(),
		time.Local,
	)
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the first occurrence strictly after the given time,
// or nil if the rule has no more occurrences
func NextOccurrence(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	afterLocal := after.In(time.Local)
	current := afterLocal
	for i := 0; i < 1000; i++ {
		next := rule.After(current, false)
		if next.IsZero() {
			return nil, nil
		}
		if next.After(afterLocal) {
			return &next, nil
		}
		current = next.Add(time.Second)
	}

	return nil, nil
}

// IsRecurringRule checks if the string looks like a recurrence rule
func IsRecurringRule(ruleStr string) bool {
	return ruleStr != "" && strings.Contains(strings.ToUpper(ruleStr), "FREQ=")
}
