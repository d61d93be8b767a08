// Package sink is the append-only boundary the simulator writes through.
// Every record kind of the data model has a typed create method; the gorm
// implementation maps each to a table insert, and the memory implementation
// collects records for tests.
package sink

import (
	"context"
	"errors"

	"github.com/learnpath/datasim/internal/models"
)

// ErrSinkFailure wraps any rejected write. The current transactional unit
// is rolled back and the run aborts; writes are never retried, since
// regenerating with fresh random draws would silently duplicate state.
var ErrSinkFailure = errors.New("sink write rejected")

// Sink accepts the typed records produced during generation.
type Sink interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	CreateUserRole(ctx context.Context, r *models.UserRole) error
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	CreateSession(ctx context.Context, s *models.UserSession) error
	CreateActivity(ctx context.Context, a *models.ActivityLog) error
	CreateLessonProgress(ctx context.Context, p *models.LessonProgress) error
	CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) error
	CreateQuestionResponse(ctx context.Context, r *models.QuestionResponse) error
	CreateQuizInteraction(ctx context.Context, l *models.QuizInteractionLog) error
	CreateReadingBehavior(ctx context.Context, l *models.ReadingBehaviorLog) error
	CreateInteraction(ctx context.Context, l *models.InteractionLog) error
	CreateCourseGrade(ctx context.Context, g *models.CourseGrade) error
}

// TransactionalSink adds the unit-of-work boundary used per logical phase
// (one user's records, or the clear-and-reseed step). A failure inside fn
// rolls back everything written through the passed Sink.
type TransactionalSink interface {
	Sink
	Transaction(ctx context.Context, fn func(Sink) error) error
	ClearBehaviorData(ctx context.Context) error
	Counts(ctx context.Context) (map[string]int64, error)
}

// IsSinkFailure reports whether err came from a rejected write.
func IsSinkFailure(err error) bool {
	return errors.Is(err, ErrSinkFailure)
}
