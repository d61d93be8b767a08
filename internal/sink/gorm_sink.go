package sink

import (
	"context"
	"fmt"

	"github.com/learnpath/datasim/internal/models"
	"gorm.io/gorm"
)

// GormSink writes records straight to the database.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) create(ctx context.Context, record interface{}) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	return nil
}

func (s *GormSink) CreateProfile(ctx context.Context, p *models.Profile) error {
	return s.create(ctx, p)
}

func (s *GormSink) CreateUserRole(ctx context.Context, r *models.UserRole) error {
	return s.create(ctx, r)
}

func (s *GormSink) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	return s.create(ctx, e)
}

func (s *GormSink) CreateSession(ctx context.Context, sess *models.UserSession) error {
	return s.create(ctx, sess)
}

func (s *GormSink) CreateActivity(ctx context.Context, a *models.ActivityLog) error {
	return s.create(ctx, a)
}

func (s *GormSink) CreateLessonProgress(ctx context.Context, p *models.LessonProgress) error {
	return s.create(ctx, p)
}

func (s *GormSink) CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) error {
	return s.create(ctx, a)
}

func (s *GormSink) CreateQuestionResponse(ctx context.Context, r *models.QuestionResponse) error {
	return s.create(ctx, r)
}

func (s *GormSink) CreateQuizInteraction(ctx context.Context, l *models.QuizInteractionLog) error {
	return s.create(ctx, l)
}

func (s *GormSink) CreateReadingBehavior(ctx context.Context, l *models.ReadingBehaviorLog) error {
	return s.create(ctx, l)
}

func (s *GormSink) CreateInteraction(ctx context.Context, l *models.InteractionLog) error {
	return s.create(ctx, l)
}

func (s *GormSink) CreateCourseGrade(ctx context.Context, g *models.CourseGrade) error {
	return s.create(ctx, g)
}

// Transaction runs fn against a sink bound to one database transaction.
func (s *GormSink) Transaction(ctx context.Context, fn func(Sink) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormSink(tx))
	})
}

// ClearBehaviorData deletes all generated rows, children first, leaving the
// course catalog untouched.
func (s *GormSink) ClearBehaviorData(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range models.BehaviorTables() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("%w: clearing %T: %v", ErrSinkFailure, model, err)
			}
		}
		return nil
	})
}

// Counts reports row counts for every table, keyed by table name.
func (s *GormSink) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, model := range models.AllTables() {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to resolve table for %T: %w", model, err)
		}
		var n int64
		if err := s.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stmt.Schema.Table, err)
		}
		counts[stmt.Schema.Table] = n
	}
	return counts, nil
}
