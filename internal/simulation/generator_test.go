package simulation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/learnpath/datasim/internal/catalog"
	"github.com/learnpath/datasim/internal/events"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/learnpath/datasim/internal/sink"
	"github.com/learnpath/datasim/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	var (
		courses   []models.Course
		modules   []models.CourseModule
		lessons   []models.Lesson
		quizzes   []models.Quiz
		questions []models.Question
	)

	for c := 1; c <= 2; c++ {
		courseID := fmt.Sprintf("course-%d", c)
		courses = append(courses, models.Course{ID: courseID, Title: fmt.Sprintf("Course %d", c)})

		for m := 1; m <= 2; m++ {
			moduleID := fmt.Sprintf("%s-module-%d", courseID, m)
			modules = append(modules, models.CourseModule{ID: moduleID, CourseID: courseID, OrderIndex: m})

			for l := 1; l <= 2; l++ {
				lessons = append(lessons, models.Lesson{
					ID:               fmt.Sprintf("%s-lesson-%d", moduleID, l),
					ModuleID:         moduleID,
					Title:            fmt.Sprintf("Lesson %d", l),
					EstimatedMinutes: 10,
					OrderIndex:       l,
				})
			}

			quizID := fmt.Sprintf("%s-quiz", moduleID)
			quizzes = append(quizzes, models.Quiz{ID: quizID, ModuleID: moduleID, Title: "Module Quiz"})
			for q := 1; q <= 5; q++ {
				questions = append(questions, models.Question{
					ID:            fmt.Sprintf("%s-q%d", quizID, q),
					QuizID:        quizID,
					QuestionType:  models.MultipleChoice,
					CorrectAnswer: "Option A",
					Points:        2,
					OrderIndex:    q,
				})
			}
		}
	}
	return catalog.New(courses, modules, lessons, quizzes, questions)
}

func newTestGenerator(ms *sink.MemorySink) (*Generator, *events.MockEventPublisher) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := events.NewMockEventPublisher(discard)
	return NewGenerator(testCatalog(), ms, pub, utils.NewSlogLogger(discard)), pub
}

func testOptions(seed int64) Options {
	return Options{
		Start:     time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UserCount: 8,
		Seed:      seed,
	}
}

func TestRunProducesCohort(t *testing.T) {
	ms := sink.NewMemorySink()
	g, pub := newTestGenerator(ms)

	summary, err := g.Run(context.Background(), testOptions(42))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(42), summary.Seed)

	assert.Len(t, ms.Profiles, 8)
	assert.Len(t, ms.UserRoles, 8)
	assert.GreaterOrEqual(t, len(ms.Enrollments), 8)
	assert.NotEmpty(t, ms.Sessions)
	assert.NotEmpty(t, ms.Activities)
	assert.NotEmpty(t, ms.ReadingLogs)
	assert.NotEmpty(t, ms.LessonProgress)

	seedEnrollments := 0
	for _, e := range ms.Enrollments {
		if e.EnrolledAt.Before(g.opts.Start) {
			seedEnrollments++
		}
	}
	assert.Equal(t, 4*seedEnrollments, len(ms.CourseGrades),
		"each seed enrollment carries two assignments, a midterm and a final")

	for _, p := range ms.Profiles {
		assert.Contains(t, []string{"diligent", "average", "struggling", "dropout"}, p.Persona)
		assert.NotEmpty(t, p.FullName)
	}

	require.NotEmpty(t, pub.Events)
	assert.Equal(t, events.EventRunStarted, pub.Events[0].Type)
	assert.Equal(t, events.EventRunCompleted, pub.Events[len(pub.Events)-1].Type)
	assert.Len(t, pub.Events, 10) // started + 8 users + completed
}

func TestRunTemporalAndScoringInvariants(t *testing.T) {
	ms := sink.NewMemorySink()
	g, _ := newTestGenerator(ms)

	_, err := g.Run(context.Background(), testOptions(7))
	require.NoError(t, err)

	sessions := make(map[string]models.UserSession)
	for _, s := range ms.Sessions {
		require.False(t, s.EndedAt.Before(s.StartedAt))
		sessions[s.ID] = s
	}

	for _, a := range ms.Activities {
		s, ok := sessions[a.SessionID]
		require.True(t, ok, "activity references unknown session %s", a.SessionID)
		assert.False(t, a.Timestamp.Before(s.StartedAt),
			"activity at %s precedes session start %s", a.Timestamp, s.StartedAt)
		assert.False(t, a.Timestamp.After(s.EndedAt),
			"activity at %s follows session end %s", a.Timestamp, s.EndedAt)
	}

	enrolledAt := make(map[string]time.Time)
	for _, e := range ms.Enrollments {
		enrolledAt[e.UserID+"/"+e.CourseID] = e.EnrolledAt
		if e.Status == models.EnrollmentCompleted {
			require.NotNil(t, e.CompletedAt)
			assert.False(t, e.CompletedAt.Before(e.EnrolledAt))
		}
	}
	for _, a := range ms.Activities {
		if a.ResourceType != models.ResourceCourse {
			continue
		}
		at, ok := enrolledAt[a.UserID+"/"+a.ResourceID]
		require.True(t, ok, "course activity without enrollment")
		assert.False(t, a.Timestamp.Before(at), "activity precedes enrollment")
	}

	responsesByAttempt := make(map[string][]models.QuestionResponse)
	for _, r := range ms.Responses {
		responsesByAttempt[r.AttemptID] = append(responsesByAttempt[r.AttemptID], r)
	}

	attemptNumbers := make(map[string][]int)
	for _, at := range ms.QuizAttempts {
		require.False(t, at.CompletedAt.Before(at.StartedAt))

		sum := 0
		for _, r := range responsesByAttempt[at.ID] {
			sum += r.PointsEarned
			assert.False(t, r.AnsweredAt.Before(at.StartedAt))
			assert.False(t, r.AnsweredAt.After(at.CompletedAt))
			if r.IsCorrect {
				assert.Equal(t, "Option A", r.UserAnswer)
			} else {
				assert.Zero(t, r.PointsEarned)
			}
		}
		assert.Equal(t, at.Score, sum, "attempt score must equal the response sum")
		assert.Equal(t, float64(at.Score) >= 0.6*float64(at.MaxScore), at.IsPassed)

		key := at.UserID + "/" + at.QuizID
		attemptNumbers[key] = append(attemptNumbers[key], at.AttemptNumber)
	}
	for key, nums := range attemptNumbers {
		for i, n := range nums {
			assert.Equal(t, i+1, n, "attempt numbers for %s must be contiguous from 1", key)
		}
		assert.LessOrEqual(t, len(nums), maxQuizAttempts, key)
	}

	for _, fl := range ms.QuizInteractions {
		assert.NotEmpty(t, fl.AttemptID)
		assert.NotEmpty(t, fl.QuestionID)
	}

	for _, lp := range ms.LessonProgress {
		if lp.IsCompleted {
			assert.Equal(t, 100, lp.ProgressPercentage)
			require.NotNil(t, lp.CompletedAt)
		} else {
			assert.Less(t, lp.ProgressPercentage, 100)
			assert.Nil(t, lp.CompletedAt)
		}
	}
}

func TestSessionsNeverOverlapPerUser(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		ms := sink.NewMemorySink()
		g, _ := newTestGenerator(ms)
		_, err := g.Run(context.Background(), testOptions(seed))
		require.NoError(t, err)

		byUser := make(map[string][]models.UserSession)
		for _, s := range ms.Sessions {
			byUser[s.UserID] = append(byUser[s.UserID], s)
		}
		for userID, sessions := range byUser {
			sort.Slice(sessions, func(a, b int) bool {
				return sessions[a].StartedAt.Before(sessions[b].StartedAt)
			})
			for i := 1; i < len(sessions); i++ {
				assert.True(t, sessions[i].StartedAt.After(sessions[i-1].EndedAt),
					"seed %d user %s: session starting %s overlaps previous ending %s",
					seed, userID, sessions[i].StartedAt, sessions[i-1].EndedAt)
			}
		}
	}
}

func TestZeroPointQuizDegradesToScorelessAttempt(t *testing.T) {
	quiz := models.Quiz{ID: "quiz-survey", ModuleID: "m1", Title: "Course Survey"}
	questions := []models.Question{
		{ID: "q1", QuizID: quiz.ID, QuestionType: models.MultipleChoice, CorrectAnswer: "Option A", Points: 0, OrderIndex: 1},
		{ID: "q2", QuizID: quiz.ID, QuestionType: models.MultipleChoice, CorrectAnswer: "Option B", Points: 0, OrderIndex: 2},
	}
	cat := catalog.New(
		[]models.Course{{ID: "c1", Title: "Course 1"}},
		[]models.CourseModule{{ID: "m1", CourseID: "c1", OrderIndex: 1}},
		[]models.Lesson{{ID: "l1", ModuleID: "m1", Title: "Lesson 1", EstimatedMinutes: 10, OrderIndex: 1}},
		[]models.Quiz{quiz}, questions)

	ms := sink.NewMemorySink()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGenerator(cat, ms, nil, utils.NewSlogLogger(discard))
	g.rng = rand.New(rand.NewSource(3))

	user := &simUser{
		id:               "u1",
		persona:          persona.Average,
		params:           persona.MustGet(persona.Average),
		completedLessons: map[string]bool{},
	}
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	outcome, err := g.generateQuizAttempt(context.Background(), ms, user, "session-1", quiz, start, 1, nil)
	require.NoError(t, err)
	assert.Zero(t, outcome.score)
	assert.Zero(t, outcome.maxScore)
	assert.True(t, outcome.passed)

	require.Len(t, ms.QuizAttempts, 1)
	at := ms.QuizAttempts[0]
	assert.Zero(t, at.Score)
	assert.Zero(t, at.MaxScore)
	assert.True(t, at.IsPassed)
	assert.Zero(t, at.TimeSpentSeconds)
	assert.Empty(t, ms.Responses, "a scoreless quiz records no responses")
	assert.Empty(t, ms.QuizInteractions)
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	run := func() map[string]int64 {
		ms := sink.NewMemorySink()
		g, _ := newTestGenerator(ms)
		summary, err := g.Run(context.Background(), testOptions(99))
		require.NoError(t, err)
		return summary.Counts
	}

	assert.Equal(t, run(), run(), "identical seeds must produce identical record counts")
}

func TestRunSinkFailureAborts(t *testing.T) {
	ms := sink.NewMemorySink()
	ms.FailTable = "activity_logs"
	g, pub := newTestGenerator(ms)

	_, err := g.Run(context.Background(), testOptions(42))
	require.Error(t, err)
	assert.True(t, sink.IsSinkFailure(err))
	require.NotEmpty(t, pub.Events)
	assert.Equal(t, events.EventRunFailed, pub.Events[len(pub.Events)-1].Type)
}

func TestRunOptionValidation(t *testing.T) {
	g, _ := newTestGenerator(sink.NewMemorySink())

	opts := testOptions(1)
	opts.UserCount = 0
	_, err := g.Run(context.Background(), opts)
	assert.Error(t, err)

	opts = testOptions(1)
	opts.End = opts.Start.AddDate(0, 0, -1)
	_, err = g.Run(context.Background(), opts)
	assert.Error(t, err)
}

func TestRunClearExisting(t *testing.T) {
	ms := sink.NewMemorySink()
	g, _ := newTestGenerator(ms)

	opts := testOptions(5)
	opts.ClearExisting = true
	_, err := g.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, ms.Cleared)
}

func TestRunEmptyCatalogAborts(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGenerator(catalog.New(nil, nil, nil, nil, nil), sink.NewMemorySink(),
		events.NewMockEventPublisher(discard), utils.NewSlogLogger(discard))

	_, err := g.Run(context.Background(), testOptions(1))
	assert.ErrorIs(t, err, catalog.ErrCatalogEmpty)
}
