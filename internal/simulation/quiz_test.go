package simulation

import (
	"math/rand"
	"testing"

	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evenQuestions(n, points int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{ID: string(rune('a' + i)), Points: points}
	}
	return qs
}

func TestPlanCorrectnessLandsOnNearestReachableScore(t *testing.T) {
	// Five 2-point questions cannot sum to 7; the plan must settle on an
	// adjacent even score.
	questions := evenQuestions(5, 2)
	for seed := int64(0); seed < 50; seed++ {
		r := rand.New(rand.NewSource(seed))
		correct, score := planCorrectness(r, questions, 7, 10)

		sum := 0
		for i, c := range correct {
			if c {
				sum += questions[i].Points
			}
		}
		require.Equal(t, sum, score, "seed %d: reported score must equal flag sum", seed)
		assert.Contains(t, []int{6, 8}, score, "seed %d", seed)
	}
}

func TestPlanCorrectnessReachableTargetIsExact(t *testing.T) {
	questions := evenQuestions(10, 1)
	for seed := int64(0); seed < 50; seed++ {
		r := rand.New(rand.NewSource(seed))
		_, score := planCorrectness(r, questions, 7, 10)
		assert.Equal(t, 7, score, "seed %d", seed)
	}
}

func TestPlanCorrectnessExtremes(t *testing.T) {
	questions := evenQuestions(5, 2)

	r := rand.New(rand.NewSource(1))
	correct, score := planCorrectness(r, questions, 0, 10)
	assert.Equal(t, 0, score)
	for _, c := range correct {
		assert.False(t, c)
	}

	correct, score = planCorrectness(r, questions, 10, 10)
	assert.Equal(t, 10, score)
	for _, c := range correct {
		assert.True(t, c)
	}

	correct, score = planCorrectness(r, nil, 0, 0)
	assert.Empty(t, correct)
	assert.Equal(t, 0, score)
}

func TestAttemptTargetRateRetryImproves(t *testing.T) {
	p := persona.MustGet(persona.Struggling)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		previous := randFloat(r, 0.1, 0.9)
		rate := attemptTargetRate(r, p, 2, previous, true)
		assert.Greater(t, rate, previous)
		assert.LessOrEqual(t, rate, 0.98)
	}

	rate := attemptTargetRate(r, p, 3, 0.97, true)
	assert.Equal(t, 0.98, rate)
}

func TestAttemptTargetRateFirstAttemptUsesPersonaBand(t *testing.T) {
	p := persona.MustGet(persona.Diligent)
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		rate := attemptTargetRate(r, p, 1, 0, false)
		assert.GreaterOrEqual(t, rate, p.FirstAttemptRate.Min)
		assert.LessOrEqual(t, rate, p.FirstAttemptRate.Max)
	}
}

func TestQuestionSecondsFamiliarityFloor(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		first := questionSeconds(r, 1)
		assert.GreaterOrEqual(t, first, 30)
		assert.LessOrEqual(t, first, 120)

		// By the fourth attempt the multiplier has hit the 50% floor.
		fourth := questionSeconds(r, 4)
		assert.GreaterOrEqual(t, fourth, 15)
		assert.LessOrEqual(t, fourth, 60)
	}
}
