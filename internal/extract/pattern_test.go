package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternExtractRelativeMinutes(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "remind me in 10 minutes to drink water", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "drink water", res.Task)
	assert.Equal(t, now.Add(10*time.Minute), res.TriggerTime)
}

func TestPatternExtractRelativeHours(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "remind me in 2 hours to check the oven", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "check the oven", res.Task)
	assert.Equal(t, now.Add(2*time.Hour), res.TriggerTime)
}

func TestPatternExtractHinglishOffset(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "5 minute baad yaad dilana ki khana khana hai", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "khana khana hai", res.Task)
	assert.Equal(t, now.Add(5*time.Minute), res.TriggerTime)
}

func TestPatternExtractHindiNumberWord(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "do minute baad yaad dilana ki paani pina hai", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "paani pina hai", res.Task)
	assert.Equal(t, now.Add(2*time.Minute), res.TriggerTime)
}

func TestPatternExtractClockTimeFuture(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "remind me at 3:30 pm to join the meeting", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "join the meeting", res.Task)
	assert.Equal(t, time.Date(2026, 8, 29, 15, 30, 0, 0, time.Local), res.TriggerTime)
}

func TestPatternExtractClockTimePassedRollsToTomorrow(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "remind me at 9 am to stretch", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "stretch", res.Task)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local), res.TriggerTime)
}

func TestPatternExtractTomorrowWithTime(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	res, err := p.Extract(context.Background(), "remind me tomorrow at 8 am to take the medicine", now)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "take the medicine", res.Task)
	assert.Equal(t, time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local), res.TriggerTime)
}

func TestPatternExtractNoTimeExpression(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Now()

	res, err := p.Extract(context.Background(), "how is the weather today", now)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPatternExtractTimeButNoTask(t *testing.T) {
	p := NewPatternExtractor()
	now := time.Now()

	res, err := p.Extract(context.Background(), "remind me in 5 minutes", now)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestChainFallsThroughToNextExtractor(t *testing.T) {
	now := time.Now()
	want := &Result{Task: "something", TriggerTime: now.Add(time.Minute)}

	chain := Chain{
		extractorFunc(func(context.Context, string, time.Time) (*Result, error) { return nil, nil }),
		extractorFunc(func(context.Context, string, time.Time) (*Result, error) { return want, nil }),
	}

	res, err := chain.Extract(context.Background(), "whatever", now)
	require.NoError(t, err)
	assert.Equal(t, want, res)
}

type extractorFunc func(ctx context.Context, text string, now time.Time) (*Result, error)

func (f extractorFunc) Name() string { return "func" }
func (f extractorFunc) Extract(ctx context.Context, text string, now time.Time) (*Result, error) {
	return f(ctx, text, now)
}
