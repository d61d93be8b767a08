package simulation

import (
	"testing"

	"github.com/learnpath/datasim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTrackerRecordsLatestOutcome(t *testing.T) {
	tr := NewRetryTracker()
	quiz := models.Quiz{ID: "q1"}

	assert.Equal(t, 0, tr.Attempts("u1", "q1"))

	tr.Record("u1", quiz, 1, 4, 10, false)
	assert.Equal(t, 1, tr.Attempts("u1", "q1"))

	tr.Record("u1", quiz, 2, 7, 10, true)
	assert.Equal(t, 2, tr.Attempts("u1", "q1"))

	pending := tr.pending("u1")
	require.Len(t, pending, 1)
	assert.Equal(t, 7, pending[0].lastScore)
	assert.True(t, pending[0].passed)
}

func TestRetryTrackerCapsAttempts(t *testing.T) {
	tr := NewRetryTracker()
	quiz := models.Quiz{ID: "q1"}

	tr.Record("u1", quiz, 3, 5, 10, false)
	assert.Empty(t, tr.pending("u1"), "a quiz at the attempt cap is never retried")
}

func TestRetryTrackerPendingIsPerUserInFirstAttemptOrder(t *testing.T) {
	tr := NewRetryTracker()

	tr.Record("u1", models.Quiz{ID: "qB"}, 1, 3, 10, false)
	tr.Record("u2", models.Quiz{ID: "qA"}, 1, 8, 10, true)
	tr.Record("u1", models.Quiz{ID: "qA"}, 1, 6, 10, true)

	pending := tr.pending("u1")
	require.Len(t, pending, 2)
	assert.Equal(t, "qB", pending[0].quiz.ID)
	assert.Equal(t, "qA", pending[1].quiz.ID)
}
