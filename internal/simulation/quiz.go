package simulation

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/learnpath/datasim/internal/sink"
)

// passThreshold is the platform-wide pass mark: 60% of max score.
const passThreshold = 0.6

// attemptTargetRate picks the pass rate an attempt aims for. First attempts
// draw from the persona band, deliberately short of 1.0 so retries have
// room. Later attempts improve on the previous rate by a persona-specific
// margin, capped at 0.98.
func attemptTargetRate(r *rand.Rand, p persona.Params, attemptNumber int, previousRate float64, hasPrevious bool) float64 {
	if attemptNumber <= 1 {
		return floatIn(r, p.FirstAttemptRate)
	}
	if !hasPrevious {
		return randFloat(r, 0.70, 0.90)
	}
	rate := previousRate + floatIn(r, p.RetryImprovement)
	if rate > 0.98 {
		rate = 0.98
	}
	return rate
}

// planCorrectness assigns per-question correctness in two passes. Pass one
// draws each question independently with probability near the target rate.
// Pass two closes the gap to the target score: under target, the
// highest-value wrong questions flip to correct; over target, the
// lowest-value correct questions flip to wrong. The final sum lands on the
// closest score reachable in whole-question increments, which may differ
// from the nominal target by less than one question's points.
func planCorrectness(r *rand.Rand, questions []models.Question, targetScore, maxScore int) ([]bool, int) {
	correct := make([]bool, len(questions))
	if maxScore <= 0 {
		return correct, 0
	}

	targetProb := float64(targetScore) / float64(maxScore)
	score := 0
	for i, q := range questions {
		prob := targetProb + randFloat(r, -0.03, 0.03)
		if prob < 0 {
			prob = 0
		} else if prob > 1 {
			prob = 1
		}
		if chance(r, prob) {
			correct[i] = true
			score += q.Points
		}
	}

	diff := targetScore - score
	if diff > 0 {
		var wrong []int
		for i, c := range correct {
			if !c {
				wrong = append(wrong, i)
			}
		}
		sort.SliceStable(wrong, func(a, b int) bool {
			return questions[wrong[a]].Points > questions[wrong[b]].Points
		})
		for _, idx := range wrong {
			if diff <= 0 {
				break
			}
			correct[idx] = true
			score += questions[idx].Points
			diff -= questions[idx].Points
		}
	} else if diff < 0 {
		var right []int
		for i, c := range correct {
			if c {
				right = append(right, i)
			}
		}
		sort.SliceStable(right, func(a, b int) bool {
			return questions[right[a]].Points < questions[right[b]].Points
		})
		for _, idx := range right {
			if diff >= 0 {
				break
			}
			correct[idx] = false
			score -= questions[idx].Points
			diff += questions[idx].Points
		}
	}
	return correct, score
}

// questionSeconds applies the familiarity curve: each attempt is 20% faster
// than the last, never dropping under half the base time.
func questionSeconds(r *rand.Rand, attemptNumber int) int {
	base := randInt(r, 30, 120)
	multiplier := 1.0 - float64(attemptNumber-1)*0.2
	if multiplier < 0.5 {
		multiplier = 0.5
	}
	return int(float64(base) * multiplier)
}

func hintProbability(p persona.Params, willBeCorrect bool) float64 {
	if willBeCorrect {
		return p.HintProbCorrect
	}
	return p.HintProbWrong
}

var answerOptions = []string{"Option A", "Option B", "Option C", "Option D"}

func wrongAnswer(r *rand.Rand) string {
	answers := []string{"Sai rồi", "Không chính xác", "Đáp án khác", "Option " + pick(r, []string{"A", "B", "C", "D"})}
	return pick(r, answers)
}

type attemptOutcome struct {
	score    int
	maxScore int
	passed   bool
	endTime  time.Time
}

// generateQuizAttempt produces one full attempt: the attempt row (written
// once, already carrying the true response sum), its question responses,
// the per-question interaction flow, and the start/complete activity pair.
func (g *Generator) generateQuizAttempt(ctx context.Context, s sink.Sink, user *simUser, sessionID string, quiz models.Quiz, startTime time.Time, attemptNumber int, prev *retryState) (attemptOutcome, error) {
	if err := g.logActivity(ctx, s, user.id, sessionID, startTime, models.ActionStart, models.ResourceQuiz, quiz.ID, nil, nil); err != nil {
		return attemptOutcome{}, err
	}
	startTime = startTime.Add(time.Duration(randInt(g.rng, 3, 15)) * time.Second)

	questions := g.catalog.Questions(quiz.ID)
	maxScore := 0
	for _, q := range questions {
		maxScore += q.Points
	}

	var (
		correctness []bool
		score       int
		perQuestion int
	)
	if maxScore > 0 {
		previousRate := 0.0
		hasPrevious := false
		if prev != nil && prev.maxScore > 0 {
			previousRate = float64(prev.lastScore) / float64(prev.maxScore)
			hasPrevious = true
		}
		rate := attemptTargetRate(g.rng, user.params, attemptNumber, previousRate, hasPrevious)
		targetScore := int(float64(maxScore) * rate)
		correctness, score = planCorrectness(g.rng, questions, targetScore, maxScore)
		perQuestion = questionSeconds(g.rng, attemptNumber)
	}
	// With an empty or zero-point quiz the attempt degrades to a zero-score
	// record with no responses instead of dividing by max_score.

	timeSpent := len(questions) * perQuestion
	completedAt := startTime.Add(time.Duration(timeSpent) * time.Second)
	passed := float64(score) >= passThreshold*float64(maxScore)

	attempt := &models.QuizAttempt{
		ID:               uuid.NewString(),
		UserID:           user.id,
		QuizID:           quiz.ID,
		AttemptNumber:    attemptNumber,
		Score:            score,
		MaxScore:         maxScore,
		IsPassed:         passed,
		StartedAt:        startTime,
		CompletedAt:      completedAt,
		TimeSpentSeconds: timeSpent,
	}
	if err := s.CreateQuizAttempt(ctx, attempt); err != nil {
		return attemptOutcome{}, err
	}

	if maxScore > 0 {
		for i, question := range questions {
			isCorrect := correctness[i]
			answer := question.CorrectAnswer
			points := question.Points
			if !isCorrect {
				answer = wrongAnswer(g.rng)
				points = 0
			}

			questionStart := startTime.Add(time.Duration(i*perQuestion) * time.Second)
			answeredAt := questionStart.Add(time.Duration(perQuestion) * time.Second)

			response := &models.QuestionResponse{
				ID:               uuid.NewString(),
				AttemptID:        attempt.ID,
				QuestionID:       question.ID,
				UserAnswer:       answer,
				IsCorrect:        isCorrect,
				PointsEarned:     points,
				TimeSpentSeconds: perQuestion,
				AnsweredAt:       answeredAt,
			}
			if err := s.CreateQuestionResponse(ctx, response); err != nil {
				return attemptOutcome{}, err
			}
			if err := g.logQuizFlow(ctx, s, user, attempt.ID, question.ID, questionStart, answer, isCorrect, perQuestion); err != nil {
				return attemptOutcome{}, err
			}
		}
	}

	completeMeta := map[string]any{
		"score":          score,
		"max_score":      maxScore,
		"passed":         passed,
		"attempt_number": attemptNumber,
	}
	durationMs := timeSpent * 1000
	if err := g.logActivity(ctx, s, user.id, sessionID, completedAt, models.ActionComplete, models.ResourceQuiz, quiz.ID, &durationMs, completeMeta); err != nil {
		return attemptOutcome{}, err
	}

	return attemptOutcome{
		score:    score,
		maxScore: maxScore,
		passed:   passed,
		endTime:  completedAt.Add(time.Duration(randInt(g.rng, 10, 30)) * time.Second),
	}, nil
}

// logQuizFlow reconstructs the deliberation behind one answer: view, a
// thinking pause, an optional hint, possible intermediate wrong picks, and
// the terminal submit that mirrors the question response.
func (g *Generator) logQuizFlow(ctx context.Context, s sink.Sink, user *simUser, attemptID, questionID string, questionStart time.Time, finalAnswer string, isCorrect bool, perQuestion int) error {
	current := questionStart

	if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionView, nil, nil, 0, 0, false); err != nil {
		return err
	}

	thinking := time.Duration(float64(perQuestion)*randFloat(g.rng, 0.10, 0.40)) * time.Second
	current = current.Add(thinking)

	hintUsed := false
	if chance(g.rng, hintProbability(user.params, isCorrect)) {
		hintUsed = true
		hintMs := randInt(g.rng, 2000, 8000)
		if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionHintRequest, nil, nil, hintMs, 0, true); err != nil {
			return err
		}
		current = current.Add(time.Duration(hintMs) * time.Millisecond)
	}

	changes := 0
	if !isCorrect && chance(g.rng, 0.15) {
		// The student flails between options before settling.
		changes = randInt(g.rng, 1, 2)
		first := pick(g.rng, answerOptions)
		firstMs := randInt(g.rng, 3000, 15000)
		if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionAnswer, &first, models.BoolPtr(false), firstMs, changes, hintUsed); err != nil {
			return err
		}
		current = current.Add(time.Duration(firstMs) * time.Millisecond)

		if changes == 2 {
			second := first
			for second == first {
				second = pick(g.rng, answerOptions)
			}
			secondMs := randInt(g.rng, 5000, 20000)
			if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionAnswer, &second, models.BoolPtr(false), secondMs, changes, hintUsed); err != nil {
				return err
			}
			current = current.Add(time.Duration(secondMs) * time.Millisecond)
		}

		finalMs := randInt(g.rng, 3000, 12000)
		if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionAnswer, &finalAnswer, &isCorrect, finalMs, changes, hintUsed); err != nil {
			return err
		}
		current = current.Add(time.Duration(finalMs) * time.Millisecond)
	} else {
		answerMs := randInt(g.rng, 5000, 30000)
		if err := g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionAnswer, &finalAnswer, &isCorrect, answerMs, 0, hintUsed); err != nil {
			return err
		}
		current = current.Add(time.Duration(answerMs) * time.Millisecond)
	}

	submitMs := randInt(g.rng, 1000, 3000)
	current = current.Add(time.Duration(submitMs) * time.Millisecond)
	return g.insertQuizLog(ctx, s, user.id, attemptID, questionID, current, models.QuizActionSubmit, &finalAnswer, &isCorrect, submitMs, changes, hintUsed)
}

func (g *Generator) insertQuizLog(ctx context.Context, s sink.Sink, userID, attemptID, questionID string, ts time.Time, action models.QuizActionType, answer *string, isCorrect *bool, timeSpentMs, changes int, hintUsed bool) error {
	return s.CreateQuizInteraction(ctx, &models.QuizInteractionLog{
		ID:                 uuid.NewString(),
		UserID:             userID,
		AttemptID:          attemptID,
		QuestionID:         questionID,
		Timestamp:          ts,
		ActionType:         action,
		AnswerGiven:        answer,
		IsCorrect:          isCorrect,
		TimeSpentMs:        timeSpentMs,
		AnswerChangesCount: changes,
		HintUsed:           hintUsed,
		Metadata: mustJSON(map[string]any{
			"action":        string(action),
			"timestamp_iso": ts.Format(time.RFC3339),
		}),
	})
}
