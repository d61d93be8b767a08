package persona

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	for _, name := range All() {
		p, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		assert.Greater(t, p.WeeklyFrequency.Min, 0)
		assert.GreaterOrEqual(t, p.WeeklyFrequency.Max, p.WeeklyFrequency.Min)
		assert.Greater(t, p.LessonCompletionProb, 0.0)
		assert.LessOrEqual(t, p.FirstAttemptRate.Max, 1.0)
	}

	_, err := Get("superhuman")
	assert.Error(t, err)
}

func TestDropoutTruncation(t *testing.T) {
	p := MustGet(Dropout)
	require.NotNil(t, p.ActiveDays)
	assert.Equal(t, 14, p.ActiveDays.Min)
	assert.Equal(t, 21, p.ActiveDays.Max)

	for _, name := range []Name{Diligent, Average, Struggling} {
		assert.Nil(t, MustGet(name).ActiveDays, "only dropout disengages early")
	}
}

func TestDistributionAllocate(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	t.Run("default mix over 20 users", func(t *testing.T) {
		names, err := DefaultDistribution().Allocate(20, r)
		require.NoError(t, err)
		require.Len(t, names, 20)

		counts := map[Name]int{}
		for _, n := range names {
			counts[n]++
		}
		assert.Equal(t, 4, counts[Diligent])
		assert.Equal(t, 8, counts[Average])
		assert.Equal(t, 5, counts[Struggling])
		assert.Equal(t, 3, counts[Dropout])
	})

	t.Run("remainder is fully distributed", func(t *testing.T) {
		names, err := DefaultDistribution().Allocate(7, r)
		require.NoError(t, err)
		assert.Len(t, names, 7)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		a, err := DefaultDistribution().Allocate(10, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		b, err := DefaultDistribution().Allocate(10, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rejects empty distribution", func(t *testing.T) {
		_, err := Distribution{}.Allocate(10, r)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		_, err := DefaultDistribution().Allocate(0, r)
		assert.Error(t, err)
	})
}
