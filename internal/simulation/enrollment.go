package simulation

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/learnpath/datasim/internal/sink"
)

// enrollmentIndex is the run-scoped record of which (user, course) pairs
// already have an enrollment row, with insertion order preserved per user.
type enrollmentIndex struct {
	byUser     map[string][]string
	enrolledAt map[string]map[string]time.Time
}

func newEnrollmentIndex() *enrollmentIndex {
	return &enrollmentIndex{
		byUser:     make(map[string][]string),
		enrolledAt: make(map[string]map[string]time.Time),
	}
}

func (idx *enrollmentIndex) has(userID, courseID string) bool {
	_, ok := idx.enrolledAt[userID][courseID]
	return ok
}

func (idx *enrollmentIndex) record(userID, courseID string, at time.Time) {
	if idx.has(userID, courseID) {
		return
	}
	if idx.enrolledAt[userID] == nil {
		idx.enrolledAt[userID] = make(map[string]time.Time)
	}
	idx.enrolledAt[userID][courseID] = at
	idx.byUser[userID] = append(idx.byUser[userID], courseID)
}

func (idx *enrollmentIndex) courses(userID string) []string {
	return idx.byUser[userID]
}

// backdatedEnrollment places a lazily-created enrollment 1-7 days before
// the session that triggered it, clamped to the simulation start.
func backdatedEnrollment(r *rand.Rand, windowStart, sessionStart time.Time) time.Time {
	at := sessionStart.AddDate(0, 0, -randInt(r, 1, 7))
	if at.Before(windowStart) {
		at = windowStart
	}
	return at
}

// ensureEnrollment is the consistency guard: any activity touching a course
// the user is not yet enrolled in first materializes an enrollment row that
// predates the triggering session. Calling it again for the same pair is a
// no-op.
func (g *Generator) ensureEnrollment(ctx context.Context, s sink.Sink, userID, courseID string, sessionStart time.Time, p persona.Params) error {
	if g.enrollments.has(userID, courseID) {
		return nil
	}

	enrolledAt := backdatedEnrollment(g.rng, g.opts.Start, sessionStart)
	enrollment := &models.Enrollment{
		ID:                 uuid.NewString(),
		UserID:             userID,
		CourseID:           courseID,
		Status:             models.EnrollmentActive,
		ProgressPercentage: intIn(g.rng, p.NewEnrollProgress),
		EnrolledAt:         enrolledAt,
	}
	if err := s.CreateEnrollment(ctx, enrollment); err != nil {
		return err
	}
	g.enrollments.record(userID, courseID, enrolledAt)
	return nil
}
