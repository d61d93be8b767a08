// Package simulation generates persona-driven learning telemetry over a
// fixed time window. One Generator run fabricates a cohort of students,
// assigns each an archetype, and replays their study behavior day by day,
// writing every derived record through the sink.
package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/learnpath/datasim/internal/catalog"
	"github.com/learnpath/datasim/internal/events"
	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/learnpath/datasim/internal/sink"
	"github.com/learnpath/datasim/internal/utils"
	"gorm.io/datatypes"
)

// Options configures one generation run.
type Options struct {
	Start         time.Time `validate:"required"`
	End           time.Time `validate:"required"`
	UserCount     int       `validate:"required,min=1,max=10000"`
	Seed          int64     // 0 draws a seed from the clock
	Weights       persona.Distribution
	ClearExisting bool
}

// RunSummary reports what one run produced.
type RunSummary struct {
	RunID     string           `json:"run_id"`
	Seed      int64            `json:"seed"`
	UserCount int              `json:"user_count"`
	Counts    map[string]int64 `json:"counts"`
	Duration  time.Duration    `json:"duration"`
}

// simUser is one fabricated student with their run-scoped lesson memory.
type simUser struct {
	id               string
	name             string
	persona          persona.Name
	params           persona.Params
	completedLessons map[string]bool
}

type Generator struct {
	catalog   *catalog.Catalog
	sink      sink.TransactionalSink
	publisher events.EventPublisher
	logger    utils.Logger
	validate  *validator.Validate

	// Run-scoped state, reset at the top of every Run.
	opts        Options
	rng         *rand.Rand
	enrollments *enrollmentIndex
	tracker     *RetryTracker
}

func NewGenerator(cat *catalog.Catalog, s sink.TransactionalSink, publisher events.EventPublisher, logger utils.Logger) *Generator {
	return &Generator{
		catalog:   cat,
		sink:      s,
		publisher: publisher,
		logger:    logger,
		validate:  validator.New(),
	}
}

func (g *Generator) validateOptions(opts Options) error {
	if err := g.validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid run options: %w", err)
	}
	if !opts.End.After(opts.Start) {
		return fmt.Errorf("invalid run options: end %s is not after start %s",
			opts.End.Format(time.DateOnly), opts.Start.Format(time.DateOnly))
	}
	return nil
}

// Run executes one full generation pass and returns its summary. Each
// user's records are written in a single transaction; the first failed
// write aborts the run with everything before the failing user intact.
func (g *Generator) Run(ctx context.Context, opts Options) (*RunSummary, error) {
	if err := g.validateOptions(opts); err != nil {
		return nil, err
	}
	if err := g.catalog.Validate(); err != nil {
		return nil, err
	}

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Weights.Total() == 0 {
		opts.Weights = persona.DefaultDistribution()
	}

	g.opts = opts
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.enrollments = newEnrollmentIndex()
	g.tracker = NewRetryTracker()

	runID := uuid.NewString()
	began := time.Now()
	g.logger.Info("generation run starting",
		"run_id", runID,
		"seed", opts.Seed,
		"user_count", opts.UserCount,
		"window_start", opts.Start.Format(time.DateOnly),
		"window_end", opts.End.Format(time.DateOnly))

	g.publishEvent(ctx, events.NewRunEvent(events.EventRunStarted, runID, events.RunData{
		Seed:        opts.Seed,
		UserCount:   opts.UserCount,
		WindowStart: &opts.Start,
		WindowEnd:   &opts.End,
	}))

	if opts.ClearExisting {
		if err := g.sink.ClearBehaviorData(ctx); err != nil {
			g.publishFailure(ctx, runID, err)
			return nil, fmt.Errorf("failed to clear existing behavior data: %w", err)
		}
		g.logger.Info("cleared existing behavior data", "run_id", runID)
	}

	personas, err := opts.Weights.Allocate(opts.UserCount, g.rng)
	if err != nil {
		return nil, err
	}

	for i, name := range personas {
		user := &simUser{
			id:               uuid.NewString(),
			name:             rosterName(g.rng, i),
			persona:          name,
			params:           persona.MustGet(name),
			completedLessons: make(map[string]bool),
		}

		err := g.sink.Transaction(ctx, func(s sink.Sink) error {
			return g.generateUser(ctx, s, user)
		})
		if err != nil {
			g.logger.LogError(err, "user generation failed",
				"run_id", runID, "user_id", user.id, "persona", string(name))
			g.publishFailure(ctx, runID, err)
			return nil, fmt.Errorf("generation aborted at user %d/%d: %w", i+1, opts.UserCount, err)
		}

		g.publishEvent(ctx, events.NewRunEvent(events.EventUserGenerated, runID, events.RunData{
			UserID:  user.id,
			Persona: string(name),
		}))
	}

	counts, err := g.sink.Counts(ctx)
	if err != nil {
		g.logger.Warn("failed to read final table counts", "error", err)
		counts = map[string]int64{}
	}

	summary := &RunSummary{
		RunID:     runID,
		Seed:      opts.Seed,
		UserCount: opts.UserCount,
		Counts:    counts,
		Duration:  time.Since(began),
	}

	intCounts := make(map[string]int, len(counts))
	for table, n := range counts {
		intCounts[table] = int(n)
	}
	g.publishEvent(ctx, events.NewRunEvent(events.EventRunCompleted, runID, events.RunData{
		Seed:      opts.Seed,
		UserCount: opts.UserCount,
		Counts:    intCounts,
	}))

	g.logger.Info("generation run completed",
		"run_id", runID,
		"duration", summary.Duration.String(),
		"users", opts.UserCount)
	return summary, nil
}

// generateUser writes one student's complete footprint: identity, seed
// enrollments with summative grades, then the full behavioral timeline.
func (g *Generator) generateUser(ctx context.Context, s sink.Sink, user *simUser) error {
	if err := s.CreateProfile(ctx, &models.Profile{
		ID:        uuid.NewString(),
		UserID:    user.id,
		FullName:  user.name,
		Persona:   string(user.persona),
		CreatedAt: g.opts.Start,
		UpdatedAt: g.opts.Start,
	}); err != nil {
		return err
	}
	if err := s.CreateUserRole(ctx, &models.UserRole{
		ID:        uuid.NewString(),
		UserID:    user.id,
		Role:      models.RoleStudent,
		CreatedAt: g.opts.Start,
	}); err != nil {
		return err
	}

	if err := g.seedEnrollments(ctx, s, user); err != nil {
		return err
	}

	totalDays := int(g.opts.End.Sub(g.opts.Start).Hours() / 24)
	var lastEnded time.Time
	for _, day := range studyDays(g.rng, user.params, totalDays) {
		dayStart := g.opts.Start.AddDate(0, 0, day)
		for _, window := range daySessions(g.rng, user.params, dayStart) {
			// Quiz retries can run a session past its sampled end, so the
			// next window starts after the previous session's recorded end.
			// A window shifted out of its day is dropped.
			if !window.start.After(lastEnded) {
				gap := time.Duration(randInt(g.rng, 10, 30)) * time.Minute
				shift := lastEnded.Add(gap).Sub(window.start)
				window.start = window.start.Add(shift)
				window.end = window.end.Add(shift)
				if !window.start.Before(dayStart.Add(24 * time.Hour)) {
					continue
				}
			}
			if !window.start.Before(g.opts.End) {
				continue
			}
			endedAt, err := g.generateSession(ctx, s, user, window)
			if err != nil {
				return err
			}
			lastEnded = endedAt
		}
	}
	return nil
}

// seedEnrollments gives the user pre-window history: one or two existing
// enrollments with persona-banded progress, plus summative course grades
// for each. A seed enrollment that reached 100% is marked completed.
func (g *Generator) seedEnrollments(ctx context.Context, s sink.Sink, user *simUser) error {
	courses := g.catalog.Courses()
	count := 1
	if !chance(g.rng, 0.7) {
		count = 2
	}
	if count > len(courses) {
		count = len(courses)
	}

	for _, idx := range sampleDistinct(g.rng, len(courses), count) {
		course := courses[idx]
		enrolledAt := g.opts.Start.AddDate(0, 0, -randInt(g.rng, 14, 60))
		progress := intIn(g.rng, user.params.SeedEnrollProgress)

		enrollment := &models.Enrollment{
			ID:                 uuid.NewString(),
			UserID:             user.id,
			CourseID:           course.ID,
			Status:             models.EnrollmentActive,
			ProgressPercentage: progress,
			EnrolledAt:         enrolledAt,
		}
		if progress == 100 {
			enrollment.Status = models.EnrollmentCompleted
			completedAt := enrolledAt.AddDate(0, 0, randInt(g.rng, 7, 30))
			if completedAt.After(g.opts.Start) {
				completedAt = g.opts.Start
			}
			enrollment.CompletedAt = models.TimePtr(completedAt)
		}
		if err := s.CreateEnrollment(ctx, enrollment); err != nil {
			return err
		}
		g.enrollments.record(user.id, course.ID, enrolledAt)

		if err := g.seedCourseGrades(ctx, s, user, course.ID, enrolledAt); err != nil {
			return err
		}
	}
	return nil
}

// seedCourseGrades fabricates the offline-graded record for one enrollment:
// two assignments, a midterm, and a final, on the 0-10 scale, with scores
// tracking the persona's ability band.
func (g *Generator) seedCourseGrades(ctx context.Context, s sink.Sink, user *simUser, courseID string, enrolledAt time.Time) error {
	assessments := []struct {
		kind   models.AssessmentType
		title  string
		weight float64
	}{
		{models.AssessmentAssignment, "Assignment 1", 0.20},
		{models.AssessmentAssignment, "Assignment 2", 0.20},
		{models.AssessmentMidterm, "Midterm Exam", 0.25},
		{models.AssessmentFinal, "Final Exam", 0.35},
	}

	for _, a := range assessments {
		score := 10*floatIn(g.rng, user.params.FirstAttemptRate) + randFloat(g.rng, 0, 1.5)
		score = math.Round(score*10) / 10
		if score > 10 {
			score = 10
		}

		gradedAt := enrolledAt.AddDate(0, 0, randInt(g.rng, 10, 80))
		if gradedAt.After(g.opts.End) {
			gradedAt = g.opts.End
		}

		if err := s.CreateCourseGrade(ctx, &models.CourseGrade{
			ID:             uuid.NewString(),
			UserID:         user.id,
			CourseID:       courseID,
			AssessmentType: a.kind,
			Title:          a.title,
			Score:          score,
			Weight:         a.weight,
			GradedAt:       gradedAt,
			CreatedAt:      gradedAt,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) publishEvent(ctx context.Context, event *events.RunEvent) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.PublishRunEvent(ctx, event); err != nil {
		g.logger.Warn("failed to publish run event",
			"event_type", string(event.Type), "error", err)
	}
}

func (g *Generator) publishFailure(ctx context.Context, runID string, cause error) {
	g.publishEvent(ctx, events.NewRunEvent(events.EventRunFailed, runID, events.RunData{
		Error: cause.Error(),
	}))
}

var defaultDeviceInfo = map[string]string{
	"browser": "Chrome",
	"os":      "Windows",
	"device":  "Desktop",
}

// logActivity writes one activity log entry stamped with the default client
// info. Metadata may be nil.
func (g *Generator) logActivity(ctx context.Context, s sink.Sink, userID, sessionID string, ts time.Time, action models.ActionType, resource models.ResourceType, resourceID string, durationMs *int, metadata map[string]any) error {
	entry := &models.ActivityLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionID:    sessionID,
		Timestamp:    ts,
		ActionType:   action,
		ResourceType: resource,
		ResourceID:   resourceID,
		DurationMs:   durationMs,
		ClientInfo:   mustJSON(defaultDeviceInfo),
	}
	if metadata != nil {
		entry.Metadata = mustJSON(metadata)
	}
	return s.CreateActivity(ctx, entry)
}

// mustJSON marshals telemetry metadata built from basic types; a marshal
// failure degrades to an empty object rather than aborting the run.
func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(b)
}

var rosterSurnames = []string{
	"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh",
	"Phan", "Vũ", "Võ", "Đặng", "Bùi", "Đỗ",
}

var rosterGivenNames = []string{
	"Văn An", "Thị Bình", "Minh Châu", "Quốc Đạt", "Thị Hương", "Văn Khoa",
	"Thị Lan", "Minh Quân", "Thị Thu", "Văn Tùng", "Hải Yến", "Đức Anh",
}

// rosterName fabricates a plausible student name. Cohorts larger than the
// roster's combination space get an ordinal suffix.
func rosterName(r *rand.Rand, ordinal int) string {
	name := pick(r, rosterSurnames) + " " + pick(r, rosterGivenNames)
	if ordinal >= len(rosterSurnames)*len(rosterGivenNames) {
		name = fmt.Sprintf("%s %d", name, ordinal)
	}
	return name
}
