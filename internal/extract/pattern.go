package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PatternExtractor is the fast deterministic path. It understands relative
// offsets ("in 10 minutes", "2 ghante baad"), clock times ("at 3:30 pm"),
// "tomorrow", and the hindi number words the voice front end produces.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor { return &PatternExtractor{} }

func (p *PatternExtractor) Name() string { return "pattern" }

var (
	reMinutes  = regexp.MustCompile(`(\d+)\s*min(?:ute)?s?\s*(?:later|baad|mein)?`)
	reHours    = regexp.MustCompile(`(\d+)\s*(?:hour|hours|ghante|ghanta)\s*(?:later|baad|mein)?`)
	reDays     = regexp.MustCompile(`(\d+)\s*(?:day|days|din)\s*(?:later|baad|mein)?`)
	reClock    = regexp.MustCompile(`(?:at|@)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	reTomorrow = regexp.MustCompile(`(?:tomorrow|kal)\s*(?:at|@)?\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm|baje)?`)
)

// Number words the voice front end produces for small offsets
var wordMinutePatterns = []struct {
	re      *regexp.Regexp
	minutes int
}{
	{regexp.MustCompile(`(?:do|two)\s*min(?:ute)?s?\s*(?:baad|mein)`), 2},
	{regexp.MustCompile(`(?:teen|three)\s*min(?:ute)?s?\s*(?:baad|mein)`), 3},
	{regexp.MustCompile(`(?:char|four)\s*min(?:ute)?s?\s*(?:baad|mein)`), 4},
	{regexp.MustCompile(`(?:paanch|five)\s*min(?:ute)?s?\s*(?:baad|mein)`), 5},
}

// Phrases stripped from the text to isolate the task, most specific first
var reminderPhrases = []string{
	"can you remind me that i have to",
	"can you remind me to",
	"can you remind me that",
	"remind me that i have to",
	"remind me i have to",
	"remind me to",
	"remind me that",
	"remind me",
	"yaad dilana ki",
	"yaad dilana",
	"set a reminder to",
	"set a reminder for",
}

var fillerWords = []string{"that", "to", "in", "ki", "can", "you", "please"}

func (p *PatternExtractor) Extract(_ context.Context, text string, now time.Time) (*Result, error) {
	lower := strings.ToLower(text)

	at, matched := parseTime(lower, now)
	if matched == "" {
		return nil, nil
	}

	task := extractTask(lower, matched)
	if task == "" {
		return nil, nil
	}

	return &Result{Task: task, TriggerTime: at}, nil
}

// parseTime finds the time expression and returns the trigger time plus the
// matched substring used to split the task out
func parseTime(lower string, now time.Time) (time.Time, string) {
	if m := reMinutes.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(time.Duration(n) * time.Minute), m[0]
	}

	// "do minute baad" and friends
	for _, wp := range wordMinutePatterns {
		if m := wp.re.FindString(lower); m != "" {
			return now.Add(time.Duration(wp.minutes) * time.Minute), m
		}
	}

	if m := reHours.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(time.Duration(n) * time.Hour), m[0]
	}

	if m := reDays.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, n), m[0]
	}

	if m := reTomorrow.FindStringSubmatch(lower); m != nil && m[1] != "" {
		hour, minute := clockParts(m, lower)
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		return t.AddDate(0, 0, 1), m[0]
	}
	if strings.Contains(lower, "tomorrow") || strings.Contains(lower, "kal") {
		word := "tomorrow"
		if !strings.Contains(lower, "tomorrow") {
			word = "kal"
		}
		return now.AddDate(0, 0, 1), word
	}

	if m := reClock.FindStringSubmatch(lower); m != nil {
		hour, minute := clockParts(m, lower)
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		// A clock time that already passed today means tomorrow
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, m[0]
	}

	return time.Time{}, ""
}

func clockParts(m []string, lower string) (int, int) {
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch {
	case strings.Contains(lower, "pm") && hour != 12:
		hour += 12
	case strings.Contains(lower, "am") && hour == 12:
		hour = 0
	case hour < 12 && (strings.Contains(lower, "shaam") || strings.Contains(lower, "evening")):
		hour += 12
	}
	return hour, minute
}

// extractTask isolates the task description around the time expression
func extractTask(lower, timeExpr string) string {
	task := lower

	// Prefer what comes after the time expression
	if parts := strings.SplitN(lower, timeExpr, 2); len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		task = parts[1]
	}

	for _, phrase := range reminderPhrases {
		if idx := strings.Index(task, phrase); idx >= 0 {
			task = task[idx+len(phrase):]
			break
		}
	}

	task = strings.Trim(task, " .,!?")
	task = strings.TrimSpace(strings.ReplaceAll(task, timeExpr, ""))

	// Strip leading fillers
	for {
		stripped := false
		for _, w := range fillerWords {
			if task == w {
				return ""
			}
			if strings.HasPrefix(task, w+" ") {
				task = strings.TrimSpace(task[len(w):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	if len(task) < 2 {
		return ""
	}
	return task
}
