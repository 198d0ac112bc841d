package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxalabs/voxa/internal/models"
)

func TestNextSimpleDeltas(t *testing.T) {
	current := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)

	tests := []struct {
		rec  models.Recurrence
		want time.Duration
	}{
		{models.RecurDaily, 24 * time.Hour},
		{models.RecurWeekly, 7 * 24 * time.Hour},
		{models.RecurMonthly, 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		next, ok := Next(tt.rec, "", current)
		require.True(t, ok, string(tt.rec))
		assert.Equal(t, current.Add(tt.want), next, string(tt.rec))
	}
}

func TestNextOnceDoesNotRepeat(t *testing.T) {
	_, ok := Next(models.RecurOnce, "", time.Now())
	assert.False(t, ok)
}

func TestNextRulePrecedence(t *testing.T) {
	current := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)

	// A weekly rule on a monthly reminder: the rule wins
	next, ok := Next(models.RecurMonthly, "RRULE:FREQ=WEEKLY", current)
	require.True(t, ok)
	assert.Equal(t, current.Add(7*24*time.Hour), next)
}

func TestNextBrokenRuleFallsBackToType(t *testing.T) {
	current := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)

	next, ok := Next(models.RecurDaily, "RRULE:FREQ=NONSENSE", current)
	require.True(t, ok)
	assert.Equal(t, current.Add(24*time.Hour), next)
}

func TestNextOccurrenceStrictlyAfter(t *testing.T) {
	dtstart := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)

	next, err := NextOccurrence("RRULE:FREQ=DAILY", dtstart, dtstart)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, dtstart.AddDate(0, 0, 1), *next)
}

func TestNextOccurrenceExhaustedRule(t *testing.T) {
	dtstart := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)

	next, err := NextOccurrence("RRULE:FREQ=DAILY;COUNT=1", dtstart, dtstart)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestIsRecurringRule(t *testing.T) {
	assert.True(t, IsRecurringRule("RRULE:FREQ=DAILY"))
	assert.True(t, IsRecurringRule("freq=weekly;interval=2"))
	assert.False(t, IsRecurringRule(""))
	assert.False(t, IsRecurringRule("next tuesday"))
}
