// Package persona defines the behavioral archetypes that drive every
// stochastic decision in the simulator. Each archetype is a plain parameter
// record consumed by pure functions taking an explicit random source, so
// individual draws stay seedable and testable.
package persona

import (
	"fmt"
	"math/rand"
	"sort"
)

type Name string

const (
	Diligent   Name = "diligent"
	Average    Name = "average"
	Struggling Name = "struggling"
	Dropout    Name = "dropout"
)

// All returns the archetypes in canonical order.
func All() []Name {
	return []Name{Diligent, Average, Struggling, Dropout}
}

type IntRange struct {
	Min, Max int
}

type FloatRange struct {
	Min, Max float64
}

// Params bundles every probability and range one archetype controls.
type Params struct {
	Name Name

	// Scheduling
	WeeklyFrequency IntRange // study days per 7-day block
	SessionMinutes  IntRange
	ActiveDays      *IntRange // nil means the full simulation window

	// Lesson behavior
	LessonCompletionProb float64
	StudyMultiplier      FloatRange // actual duration vs. estimated minutes
	ScrollDepthPercent   IntRange
	InteractionCount     IntRange

	// Quiz behavior
	FirstAttemptRate FloatRange // target pass rate on attempt 1
	RetryImprovement FloatRange // rate gain per retry
	RetryProbPassed  float64    // retry chasing a perfect score
	RetryProbFailed  float64    // retry after failing
	HintProbCorrect  float64    // hint on a question that ends up right
	HintProbWrong    float64    // hint on a question that ends up wrong

	// Enrollment progress bands
	SeedEnrollProgress IntRange // enrollments created at window start
	NewEnrollProgress  IntRange // enrollments created lazily mid-run
}

var registry = map[Name]Params{
	Diligent: {
		Name:                 Diligent,
		WeeklyFrequency:      IntRange{4, 6},
		SessionMinutes:       IntRange{30, 90},
		LessonCompletionProb: 0.92,
		StudyMultiplier:      FloatRange{0.7, 1.3},
		ScrollDepthPercent:   IntRange{80, 100},
		InteractionCount:     IntRange{2, 8},
		FirstAttemptRate:     FloatRange{0.70, 0.85},
		RetryImprovement:     FloatRange{0.05, 0.15},
		RetryProbPassed:      0.70,
		RetryProbFailed:      0.95,
		HintProbCorrect:      0.15,
		HintProbWrong:        0.25,
		SeedEnrollProgress:   IntRange{85, 100},
		NewEnrollProgress:    IntRange{20, 40},
	},
	Average: {
		Name:                 Average,
		WeeklyFrequency:      IntRange{3, 5},
		SessionMinutes:       IntRange{20, 60},
		LessonCompletionProb: 0.70,
		StudyMultiplier:      FloatRange{0.3, 1.0},
		ScrollDepthPercent:   IntRange{50, 90},
		InteractionCount:     IntRange{0, 4},
		FirstAttemptRate:     FloatRange{0.50, 0.70},
		RetryImprovement:     FloatRange{0.10, 0.20},
		RetryProbPassed:      0.40,
		RetryProbFailed:      0.85,
		HintProbCorrect:      0.30,
		HintProbWrong:        0.45,
		SeedEnrollProgress:   IntRange{60, 90},
		NewEnrollProgress:    IntRange{10, 30},
	},
	Struggling: {
		Name:                 Struggling,
		WeeklyFrequency:      IntRange{2, 4},
		SessionMinutes:       IntRange{10, 40},
		LessonCompletionProb: 0.45,
		StudyMultiplier:      FloatRange{0.1, 0.6},
		ScrollDepthPercent:   IntRange{20, 60},
		InteractionCount:     IntRange{0, 4},
		FirstAttemptRate:     FloatRange{0.30, 0.50},
		RetryImprovement:     FloatRange{0.15, 0.25},
		RetryProbPassed:      0.25,
		RetryProbFailed:      0.70,
		HintProbCorrect:      0.40,
		HintProbWrong:        0.60,
		SeedEnrollProgress:   IntRange{35, 65},
		NewEnrollProgress:    IntRange{5, 20},
	},
	Dropout: {
		Name:                 Dropout,
		WeeklyFrequency:      IntRange{1, 3},
		SessionMinutes:       IntRange{10, 40},
		ActiveDays:           &IntRange{Min: 14, Max: 21},
		LessonCompletionProb: 0.20,
		StudyMultiplier:      FloatRange{0.1, 0.6},
		ScrollDepthPercent:   IntRange{20, 60},
		InteractionCount:     IntRange{0, 4},
		FirstAttemptRate:     FloatRange{0.10, 0.35},
		RetryImprovement:     FloatRange{0.15, 0.25},
		RetryProbPassed:      0.10,
		RetryProbFailed:      0.40,
		HintProbCorrect:      0.20,
		HintProbWrong:        0.20,
		SeedEnrollProgress:   IntRange{10, 40},
		NewEnrollProgress:    IntRange{0, 15},
	},
}

// Get returns the parameter record for an archetype.
func Get(name Name) (Params, error) {
	p, ok := registry[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown persona %q", name)
	}
	return p, nil
}

// MustGet is Get for callers holding a Name that came from All().
func MustGet(name Name) Params {
	p, err := Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Distribution holds relative weights per archetype.
type Distribution struct {
	Diligent   int `json:"diligent" validate:"min=0"`
	Average    int `json:"average" validate:"min=0"`
	Struggling int `json:"struggling" validate:"min=0"`
	Dropout    int `json:"dropout" validate:"min=0"`
}

// DefaultDistribution is the observed 20/40/25/15 student mix.
func DefaultDistribution() Distribution {
	return Distribution{Diligent: 20, Average: 40, Struggling: 25, Dropout: 15}
}

func (d Distribution) Total() int {
	return d.Diligent + d.Average + d.Struggling + d.Dropout
}

func (d Distribution) weight(name Name) int {
	switch name {
	case Diligent:
		return d.Diligent
	case Average:
		return d.Average
	case Struggling:
		return d.Struggling
	default:
		return d.Dropout
	}
}

// Allocate assigns an archetype to each of count users: largest-remainder
// apportionment of the weights, then a shuffle so assignment order carries
// no signal.
func (d Distribution) Allocate(count int, r *rand.Rand) ([]Name, error) {
	total := d.Total()
	if total <= 0 {
		return nil, fmt.Errorf("persona distribution has no weight")
	}
	if count <= 0 {
		return nil, fmt.Errorf("user count must be positive, got %d", count)
	}

	names := All()
	quotas := make([]float64, len(names))
	base := make([]int, len(names))
	assigned := 0
	for i, n := range names {
		quotas[i] = float64(count*d.weight(n)) / float64(total)
		base[i] = int(quotas[i])
		assigned += base[i]
	}

	// Hand out the remainder by largest fractional part; ties resolve in
	// canonical archetype order.
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa := quotas[order[a]] - float64(base[order[a]])
		fb := quotas[order[b]] - float64(base[order[b]])
		return fa > fb
	})
	for i := 0; assigned < count; i++ {
		base[order[i%len(order)]]++
		assigned++
	}

	out := make([]Name, 0, count)
	for i, n := range names {
		for j := 0; j < base[i]; j++ {
			out = append(out, n)
		}
	}
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out, nil
}
