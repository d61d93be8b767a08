package sink

import (
	"context"
	"fmt"

	"github.com/learnpath/datasim/internal/models"
)

// MemorySink collects records in memory. Tests use it to assert on the
// exact stream the simulator produced; FailTable simulates a rejected
// write for error-path coverage.
type MemorySink struct {
	Profiles         []models.Profile
	UserRoles        []models.UserRole
	Enrollments      []models.Enrollment
	Sessions         []models.UserSession
	Activities       []models.ActivityLog
	LessonProgress   []models.LessonProgress
	QuizAttempts     []models.QuizAttempt
	Responses        []models.QuestionResponse
	QuizInteractions []models.QuizInteractionLog
	ReadingLogs      []models.ReadingBehaviorLog
	Interactions     []models.InteractionLog
	CourseGrades     []models.CourseGrade

	Cleared bool

	// FailTable, when set, makes writes to that table fail.
	FailTable string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) fail(table string) error {
	if m.FailTable == table {
		return fmt.Errorf("%w: simulated failure on %s", ErrSinkFailure, table)
	}
	return nil
}

func (m *MemorySink) CreateProfile(_ context.Context, p *models.Profile) error {
	if err := m.fail("profiles"); err != nil {
		return err
	}
	m.Profiles = append(m.Profiles, *p)
	return nil
}

func (m *MemorySink) CreateUserRole(_ context.Context, r *models.UserRole) error {
	if err := m.fail("user_roles"); err != nil {
		return err
	}
	m.UserRoles = append(m.UserRoles, *r)
	return nil
}

func (m *MemorySink) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	if err := m.fail("enrollments"); err != nil {
		return err
	}
	m.Enrollments = append(m.Enrollments, *e)
	return nil
}

func (m *MemorySink) CreateSession(_ context.Context, s *models.UserSession) error {
	if err := m.fail("user_sessions"); err != nil {
		return err
	}
	m.Sessions = append(m.Sessions, *s)
	return nil
}

func (m *MemorySink) CreateActivity(_ context.Context, a *models.ActivityLog) error {
	if err := m.fail("activity_logs"); err != nil {
		return err
	}
	m.Activities = append(m.Activities, *a)
	return nil
}

func (m *MemorySink) CreateLessonProgress(_ context.Context, p *models.LessonProgress) error {
	if err := m.fail("lesson_progress"); err != nil {
		return err
	}
	m.LessonProgress = append(m.LessonProgress, *p)
	return nil
}

func (m *MemorySink) CreateQuizAttempt(_ context.Context, a *models.QuizAttempt) error {
	if err := m.fail("quiz_attempts"); err != nil {
		return err
	}
	m.QuizAttempts = append(m.QuizAttempts, *a)
	return nil
}

func (m *MemorySink) CreateQuestionResponse(_ context.Context, r *models.QuestionResponse) error {
	if err := m.fail("question_responses"); err != nil {
		return err
	}
	m.Responses = append(m.Responses, *r)
	return nil
}

func (m *MemorySink) CreateQuizInteraction(_ context.Context, l *models.QuizInteractionLog) error {
	if err := m.fail("quiz_interaction_logs"); err != nil {
		return err
	}
	m.QuizInteractions = append(m.QuizInteractions, *l)
	return nil
}

func (m *MemorySink) CreateReadingBehavior(_ context.Context, l *models.ReadingBehaviorLog) error {
	if err := m.fail("reading_behavior_logs"); err != nil {
		return err
	}
	m.ReadingLogs = append(m.ReadingLogs, *l)
	return nil
}

func (m *MemorySink) CreateInteraction(_ context.Context, l *models.InteractionLog) error {
	if err := m.fail("interaction_logs"); err != nil {
		return err
	}
	m.Interactions = append(m.Interactions, *l)
	return nil
}

func (m *MemorySink) CreateCourseGrade(_ context.Context, g *models.CourseGrade) error {
	if err := m.fail("course_grades"); err != nil {
		return err
	}
	m.CourseGrades = append(m.CourseGrades, *g)
	return nil
}

// Transaction runs fn against the sink itself. Rollback semantics are not
// simulated; error-path tests assert on the returned error instead.
func (m *MemorySink) Transaction(_ context.Context, fn func(Sink) error) error {
	return fn(m)
}

func (m *MemorySink) ClearBehaviorData(_ context.Context) error {
	m.Cleared = true
	return nil
}

func (m *MemorySink) Counts(_ context.Context) (map[string]int64, error) {
	return map[string]int64{
		"profiles":              int64(len(m.Profiles)),
		"user_roles":            int64(len(m.UserRoles)),
		"enrollments":           int64(len(m.Enrollments)),
		"user_sessions":         int64(len(m.Sessions)),
		"activity_logs":         int64(len(m.Activities)),
		"lesson_progress":       int64(len(m.LessonProgress)),
		"quiz_attempts":         int64(len(m.QuizAttempts)),
		"question_responses":    int64(len(m.Responses)),
		"quiz_interaction_logs": int64(len(m.QuizInteractions)),
		"reading_behavior_logs": int64(len(m.ReadingLogs)),
		"interaction_logs":      int64(len(m.Interactions)),
		"course_grades":         int64(len(m.CourseGrades)),
	}, nil
}
