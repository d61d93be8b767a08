package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/sink"
)

// courseLesson pairs a lesson with its owning module so the quiz trigger
// can find the module quiz without a second lookup.
type courseLesson struct {
	lesson models.Lesson
	module models.CourseModule
}

func (g *Generator) courseLessons(courseID string) []courseLesson {
	var out []courseLesson
	for _, module := range g.catalog.Modules(courseID) {
		for _, lesson := range g.catalog.Lessons(module.ID) {
			out = append(out, courseLesson{lesson: lesson, module: module})
		}
	}
	return out
}

// pickSessionCourse keeps users on the course they enrolled in first 90% of
// the time; the rest of the sessions explore the catalog.
func (g *Generator) pickSessionCourse(user *simUser) models.Course {
	courses := g.catalog.Courses()
	if enrolled := g.enrollments.courses(user.id); len(enrolled) > 0 && chance(g.rng, 0.9) {
		for _, c := range courses {
			if c.ID == enrolled[0] {
				return c
			}
		}
	}
	return pick(g.rng, courses)
}

// generateSession walks one session window: course view, one to three
// lessons with reading and interaction telemetry, quiz attempts triggered
// by lesson completion, and retries of earlier quizzes at the tail. The
// session row is written once the final extent of the activity is known;
// that recorded end is returned so the caller can place the next window
// after it.
func (g *Generator) generateSession(ctx context.Context, s sink.Sink, user *simUser, window sessionWindow) (time.Time, error) {
	sessionID := uuid.NewString()
	current := window.start

	course := g.pickSessionCourse(user)
	if err := g.ensureEnrollment(ctx, s, user.id, course.ID, window.start, user.params); err != nil {
		return time.Time{}, err
	}

	if err := g.logActivity(ctx, s, user.id, sessionID, current, models.ActionView, models.ResourceCourse, course.ID, nil, nil); err != nil {
		return time.Time{}, err
	}
	current = current.Add(time.Duration(randInt(g.rng, 5, 30)) * time.Second)

	attemptedThisSession := make(map[string]bool)

	lessons := g.courseLessons(course.ID)
	if len(lessons) > 0 {
		count := randInt(g.rng, 1, 3)
		picked := sampleDistinct(g.rng, len(lessons), count)
		sort.Ints(picked)

		for _, idx := range picked {
			if !current.Before(window.end) {
				break
			}
			next, err := g.generateLessonVisit(ctx, s, user, sessionID, lessons[idx], current, window.end, attemptedThisSession)
			if err != nil {
				return time.Time{}, err
			}
			current = next
		}
	}

	current, err := g.maybeRetryPreviousQuizzes(ctx, s, user, sessionID, current, attemptedThisSession)
	if err != nil {
		return time.Time{}, err
	}

	endedAt := window.end
	if current.After(endedAt) {
		endedAt = current
	}

	if err := s.CreateSession(ctx, &models.UserSession{
		ID:           sessionID,
		UserID:       user.id,
		SessionToken: uuid.NewString(),
		DeviceInfo:   mustJSON(defaultDeviceInfo),
		StartedAt:    window.start,
		EndedAt:      endedAt,
		IsActive:     false,
	}); err != nil {
		return time.Time{}, err
	}
	return endedAt, nil
}

// generateLessonVisit emits the lesson's full trace: view activity, reading
// behavior, scattered interactions, the completion outcome, and the module
// quiz when a fresh completion triggers it. Returns the clock after the
// visit.
func (g *Generator) generateLessonVisit(ctx context.Context, s sink.Sink, user *simUser, sessionID string, cl courseLesson, start, sessionEnd time.Time, attemptedThisSession map[string]bool) (time.Time, error) {
	lesson := cl.lesson
	current := start

	if err := g.logActivity(ctx, s, user.id, sessionID, current, models.ActionView, models.ResourceLesson, lesson.ID, nil, nil); err != nil {
		return current, err
	}
	current = current.Add(time.Duration(randInt(g.rng, 2, 10)) * time.Second)

	estimated := lesson.EstimatedMinutes
	if estimated <= 0 {
		estimated = 10
	}
	studySeconds := int(float64(estimated*60) * floatIn(g.rng, user.params.StudyMultiplier))
	if remaining := int(sessionEnd.Sub(current).Seconds()); studySeconds > remaining {
		studySeconds = remaining
	}
	if studySeconds < 60 {
		studySeconds = 60
	}
	studyDuration := time.Duration(studySeconds) * time.Second

	category := lessonCategory(g.rng, lesson.Title)
	scrollDepth := intIn(g.rng, user.params.ScrollDepthPercent)
	if err := s.CreateReadingBehavior(ctx, &models.ReadingBehaviorLog{
		ID:                 uuid.NewString(),
		UserID:             user.id,
		LessonID:           lesson.ID,
		SessionID:          sessionID,
		Timestamp:          current,
		DwellTimeMs:        studySeconds * 1000,
		ScrollDepthPercent: scrollDepth,
		ActionType:         "read",
		Metadata:           mustJSON(map[string]any{"content_category": string(category)}),
	}); err != nil {
		return current, err
	}

	for i, n := 0, intIn(g.rng, user.params.InteractionCount); i < n; i++ {
		def := interactionElement(g.rng, category)
		at := current.Add(time.Duration(randInt(g.rng, 0, studySeconds)) * time.Second)
		if err := s.CreateInteraction(ctx, &models.InteractionLog{
			ID:              uuid.NewString(),
			UserID:          user.id,
			LessonID:        lesson.ID,
			SessionID:       sessionID,
			Timestamp:       at,
			ElementID:       elementID(g.rng, def),
			InteractionType: pick(g.rng, def.interactions),
			Metadata:        mustJSON(interactionMetadata(g.rng, def)),
		}); err != nil {
			return current, err
		}
	}

	lessonEnd := current.Add(studyDuration)
	// A lesson completed in an earlier visit stays completed.
	completed := user.completedLessons[lesson.ID] || chance(g.rng, user.params.LessonCompletionProb)
	freshCompletion := completed && !user.completedLessons[lesson.ID]

	progress := &models.LessonProgress{
		ID:               uuid.NewString(),
		UserID:           user.id,
		LessonID:         lesson.ID,
		TimeSpentSeconds: studySeconds,
		StartedAt:        current,
		LastPosition:     mustJSON(map[string]any{"scroll_depth": scrollDepth}),
	}
	if completed {
		progress.IsCompleted = true
		progress.ProgressPercentage = 100
		progress.CompletedAt = models.TimePtr(lessonEnd)
	} else {
		progress.ProgressPercentage = randInt(g.rng, 30, 95)
	}
	if err := s.CreateLessonProgress(ctx, progress); err != nil {
		return current, err
	}

	current = lessonEnd
	if completed {
		durationMs := studySeconds * 1000
		if err := g.logActivity(ctx, s, user.id, sessionID, current, models.ActionComplete, models.ResourceLesson, lesson.ID, &durationMs, nil); err != nil {
			return current, err
		}
		user.completedLessons[lesson.ID] = true
	}

	if freshCompletion && chance(g.rng, 0.5) {
		quiz, ok := g.catalog.QuizForModule(cl.module.ID)
		if ok && g.tracker.Attempts(user.id, quiz.ID) == 0 {
			current = current.Add(time.Duration(randInt(g.rng, 30, 120)) * time.Second)
			outcome, err := g.generateQuizAttempt(ctx, s, user, sessionID, quiz, current, 1, nil)
			if err != nil {
				return current, err
			}
			g.tracker.Record(user.id, quiz, 1, outcome.score, outcome.maxScore, outcome.passed)
			attemptedThisSession[quiz.ID] = true
			current = outcome.endTime
		}
	}

	return current.Add(time.Duration(randInt(g.rng, 10, 60)) * time.Second), nil
}

// maybeRetryPreviousQuizzes revisits quizzes attempted in earlier sessions.
// Failed quizzes are retried far more eagerly than passed ones; each retry
// consumes one of the three allowed attempts.
func (g *Generator) maybeRetryPreviousQuizzes(ctx context.Context, s sink.Sink, user *simUser, sessionID string, current time.Time, attemptedThisSession map[string]bool) (time.Time, error) {
	pending := g.tracker.pending(user.id)
	if len(pending) == 0 {
		return current, nil
	}

	current = current.Add(time.Duration(randInt(g.rng, 5, 15)) * time.Minute)
	for _, st := range pending {
		if attemptedThisSession[st.quiz.ID] {
			continue
		}
		prob := user.params.RetryProbFailed
		if st.passed {
			prob = user.params.RetryProbPassed
		}
		if !chance(g.rng, prob) {
			continue
		}

		attemptNumber := st.attempts + 1
		outcome, err := g.generateQuizAttempt(ctx, s, user, sessionID, st.quiz, current, attemptNumber, st)
		if err != nil {
			return current, err
		}
		g.tracker.Record(user.id, st.quiz, attemptNumber, outcome.score, outcome.maxScore, outcome.passed)
		attemptedThisSession[st.quiz.ID] = true
		current = outcome.endTime.Add(time.Duration(randInt(g.rng, 2, 5)) * time.Minute)
	}
	return current, nil
}
