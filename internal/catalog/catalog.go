// Package catalog provides a read-only, in-memory view of the course
// content tables. It is loaded once at the start of a run; the simulator
// never touches the catalog tables afterwards.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnpath/datasim/internal/models"
	"gorm.io/gorm"
)

// ErrCatalogEmpty means there is nothing to sample from: a run aborts
// before any write when this is returned.
var ErrCatalogEmpty = errors.New("course catalog is empty")

type Catalog struct {
	courses []models.Course

	modulesByCourse map[string][]models.CourseModule
	lessonsByModule map[string][]models.Lesson
	quizzesByModule map[string][]models.Quiz
	questionsByQuiz map[string][]models.Question

	lessonCount   int
	quizCount     int
	questionCount int
}

// New builds a catalog from already-loaded rows. Used by Load and directly
// by tests.
func New(courses []models.Course, modules []models.CourseModule, lessons []models.Lesson, quizzes []models.Quiz, questions []models.Question) *Catalog {
	c := &Catalog{
		courses:         courses,
		modulesByCourse: make(map[string][]models.CourseModule),
		lessonsByModule: make(map[string][]models.Lesson),
		quizzesByModule: make(map[string][]models.Quiz),
		questionsByQuiz: make(map[string][]models.Question),
		lessonCount:     len(lessons),
		quizCount:       len(quizzes),
		questionCount:   len(questions),
	}
	for _, m := range modules {
		c.modulesByCourse[m.CourseID] = append(c.modulesByCourse[m.CourseID], m)
	}
	for _, l := range lessons {
		c.lessonsByModule[l.ModuleID] = append(c.lessonsByModule[l.ModuleID], l)
	}
	for _, q := range quizzes {
		c.quizzesByModule[q.ModuleID] = append(c.quizzesByModule[q.ModuleID], q)
	}
	for _, q := range questions {
		c.questionsByQuiz[q.QuizID] = append(c.questionsByQuiz[q.QuizID], q)
	}
	return c
}

// Load reads the whole catalog from the database in display order.
func Load(ctx context.Context, db *gorm.DB) (*Catalog, error) {
	var (
		courses   []models.Course
		modules   []models.CourseModule
		lessons   []models.Lesson
		quizzes   []models.Quiz
		questions []models.Question
	)

	if err := db.WithContext(ctx).Order("created_at").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	if err := db.WithContext(ctx).Order("course_id, order_index").Find(&modules).Error; err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	if err := db.WithContext(ctx).Order("module_id, order_index").Find(&lessons).Error; err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	if err := db.WithContext(ctx).Order("module_id").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to load quizzes: %w", err)
	}
	if err := db.WithContext(ctx).Order("quiz_id, order_index").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	return New(courses, modules, lessons, quizzes, questions), nil
}

// Validate confirms there is content at every level to sample from.
func (c *Catalog) Validate() error {
	switch {
	case len(c.courses) == 0:
		return fmt.Errorf("%w: no courses", ErrCatalogEmpty)
	case len(c.modulesByCourse) == 0:
		return fmt.Errorf("%w: no modules", ErrCatalogEmpty)
	case c.lessonCount == 0:
		return fmt.Errorf("%w: no lessons", ErrCatalogEmpty)
	case c.quizCount == 0:
		return fmt.Errorf("%w: no quizzes", ErrCatalogEmpty)
	case c.questionCount == 0:
		return fmt.Errorf("%w: no questions", ErrCatalogEmpty)
	}
	return nil
}

func (c *Catalog) Courses() []models.Course {
	return c.courses
}

func (c *Catalog) Modules(courseID string) []models.CourseModule {
	return c.modulesByCourse[courseID]
}

func (c *Catalog) Lessons(moduleID string) []models.Lesson {
	return c.lessonsByModule[moduleID]
}

// QuizForModule returns the module's quiz, if it has one. Modules carry at
// most one quiz in the source content; the first wins if data disagrees.
func (c *Catalog) QuizForModule(moduleID string) (models.Quiz, bool) {
	qs := c.quizzesByModule[moduleID]
	if len(qs) == 0 {
		return models.Quiz{}, false
	}
	return qs[0], true
}

func (c *Catalog) Questions(quizID string) []models.Question {
	return c.questionsByQuiz[quizID]
}

// Counts reports catalog sizes for run logging.
func (c *Catalog) Counts() (courses, modules, lessons, quizzes, questions int) {
	for _, ms := range c.modulesByCourse {
		modules += len(ms)
	}
	return len(c.courses), modules, c.lessonCount, c.quizCount, c.questionCount
}
