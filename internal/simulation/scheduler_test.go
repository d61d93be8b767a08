package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/learnpath/datasim/internal/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudyDaysDiligentCoversWindow(t *testing.T) {
	p := persona.MustGet(persona.Diligent)
	for seed := int64(0); seed < 20; seed++ {
		r := rand.New(rand.NewSource(seed))
		days := studyDays(r, p, 61)

		require.NotEmpty(t, days)
		// 4-6 days per 7-day block over ~9 blocks.
		assert.GreaterOrEqual(t, len(days), 30, "seed %d", seed)
		assert.LessOrEqual(t, len(days), 55, "seed %d", seed)

		for i, d := range days {
			assert.GreaterOrEqual(t, d, 0)
			assert.Less(t, d, 61)
			if i > 0 {
				assert.Greater(t, d, days[i-1], "days must be ascending and distinct")
			}
		}
	}
}

func TestStudyDaysDropoutTruncates(t *testing.T) {
	p := persona.MustGet(persona.Dropout)
	for seed := int64(0); seed < 20; seed++ {
		r := rand.New(rand.NewSource(seed))
		for _, d := range studyDays(r, p, 61) {
			assert.Less(t, d, 21, "dropout activity must stop within 21 days")
		}
	}
}

func TestStudyDaysShortWindow(t *testing.T) {
	p := persona.MustGet(persona.Diligent)
	r := rand.New(rand.NewSource(5))
	for _, d := range studyDays(r, p, 3) {
		assert.Less(t, d, 3)
	}
}

func TestDaySessionsNonOverlapping(t *testing.T) {
	p := persona.MustGet(persona.Average)
	dayStart := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	sawTwo := false
	for seed := int64(0); seed < 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		windows := daySessions(r, p, dayStart)

		require.NotEmpty(t, windows)
		require.LessOrEqual(t, len(windows), 2)

		for _, w := range windows {
			assert.True(t, w.end.After(w.start))
			assert.GreaterOrEqual(t, w.start.Hour(), sessionDayStartHour)
			assert.GreaterOrEqual(t, w.start.Sub(dayStart), time.Duration(0))
		}
		if len(windows) == 2 {
			sawTwo = true
			assert.True(t, windows[1].start.After(windows[0].end),
				"second session must start after the first ends")
			assert.True(t, windows[1].start.Before(dayStart.Add(24*time.Hour)))
		}
	}
	assert.True(t, sawTwo, "expected at least one two-session day across 200 seeds")
}

func TestSessionStartHourBand(t *testing.T) {
	p := persona.MustGet(persona.Diligent)
	dayStart := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	r := rand.New(rand.NewSource(9))
	for i := 0; i < 200; i++ {
		w := sampleSession(r, p, dayStart)
		assert.GreaterOrEqual(t, w.start.Hour(), 8)
		assert.LessOrEqual(t, w.start.Hour(), 20)
	}
}
