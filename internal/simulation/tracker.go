package simulation

import "github.com/learnpath/datasim/internal/models"

// maxQuizAttempts caps re-attempts per (user, quiz).
const maxQuizAttempts = 3

type retryKey struct {
	userID string
	quizID string
}

// retryState is the tracked outcome of the latest attempt.
type retryState struct {
	quiz      models.Quiz
	attempts  int
	lastScore int
	maxScore  int
	passed    bool
}

// RetryTracker remembers prior quiz attempts per (user, quiz) across
// sessions within one run. It is created per run and torn down with it;
// insertion order is kept so seeded runs replay identically.
type RetryTracker struct {
	entries map[retryKey]*retryState
	order   []retryKey
}

func NewRetryTracker() *RetryTracker {
	return &RetryTracker{entries: make(map[retryKey]*retryState)}
}

// Record stores the outcome of an attempt, superseding earlier state for
// the same (user, quiz).
func (t *RetryTracker) Record(userID string, quiz models.Quiz, attemptNumber, score, maxScore int, passed bool) {
	key := retryKey{userID: userID, quizID: quiz.ID}
	if st, ok := t.entries[key]; ok {
		st.attempts = attemptNumber
		st.lastScore = score
		st.maxScore = maxScore
		st.passed = passed
		return
	}
	t.entries[key] = &retryState{
		quiz:      quiz,
		attempts:  attemptNumber,
		lastScore: score,
		maxScore:  maxScore,
		passed:    passed,
	}
	t.order = append(t.order, key)
}

// Attempts returns how many attempts are recorded for the pair.
func (t *RetryTracker) Attempts(userID, quizID string) int {
	if st, ok := t.entries[retryKey{userID: userID, quizID: quizID}]; ok {
		return st.attempts
	}
	return 0
}

// pending returns the user's tracked quizzes still under the attempt cap,
// in first-attempt order.
func (t *RetryTracker) pending(userID string) []*retryState {
	var out []*retryState
	for _, key := range t.order {
		if key.userID != userID {
			continue
		}
		if st := t.entries[key]; st.attempts < maxQuizAttempts {
			out = append(out, st)
		}
	}
	return out
}
