// Package importer loads a JSON export of the learning platform into the
// database, giving a run its course catalog and optionally a pre-existing
// cohort. Rows that already exist are left untouched, so re-importing the
// same file is a no-op.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/learnpath/datasim/internal/models"
	"github.com/learnpath/datasim/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importBatchSize = 500

// exportFile is the on-disk format: table name to row array.
type exportFile struct {
	Tables map[string]json.RawMessage `json:"tables"`
}

// tableOrder lists importable tables in foreign-key order. Tables absent
// from the file are skipped; tables in the file but not listed here are
// reported as unknown.
var tableOrder = []struct {
	name  string
	slice func() any
}{
	{"courses", func() any { return &[]models.Course{} }},
	{"modules", func() any { return &[]models.CourseModule{} }},
	{"lessons", func() any { return &[]models.Lesson{} }},
	{"quizzes", func() any { return &[]models.Quiz{} }},
	{"questions", func() any { return &[]models.Question{} }},
	{"profiles", func() any { return &[]models.Profile{} }},
	{"user_roles", func() any { return &[]models.UserRole{} }},
	{"enrollments", func() any { return &[]models.Enrollment{} }},
	{"course_grades", func() any { return &[]models.CourseGrade{} }},
	{"user_sessions", func() any { return &[]models.UserSession{} }},
	{"activity_logs", func() any { return &[]models.ActivityLog{} }},
	{"lesson_progress", func() any { return &[]models.LessonProgress{} }},
	{"quiz_attempts", func() any { return &[]models.QuizAttempt{} }},
	{"question_responses", func() any { return &[]models.QuestionResponse{} }},
	{"quiz_interaction_logs", func() any { return &[]models.QuizInteractionLog{} }},
	{"reading_behavior_logs", func() any { return &[]models.ReadingBehaviorLog{} }},
	{"interaction_logs", func() any { return &[]models.InteractionLog{} }},
}

type Importer struct {
	db     *gorm.DB
	logger utils.Logger
}

func New(db *gorm.DB, logger utils.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// ImportFile loads the export at path and inserts its rows table by table.
// The whole import runs in one transaction and returns per-table row
// counts from the file.
func (im *Importer) ImportFile(ctx context.Context, path string) (map[string]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var file exportFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(file.Tables) == 0 {
		return nil, fmt.Errorf("import file %s contains no tables", path)
	}

	known := make(map[string]bool, len(tableOrder))
	for _, t := range tableOrder {
		known[t.name] = true
	}
	for name := range file.Tables {
		if !known[name] {
			im.logger.Warn("skipping unknown table in import file", "table", name)
		}
	}

	counts := make(map[string]int)
	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tableOrder {
			rows, ok := file.Tables[t.name]
			if !ok {
				continue
			}

			slice := t.slice()
			if err := json.Unmarshal(rows, slice); err != nil {
				return fmt.Errorf("failed to decode table %s: %w", t.name, err)
			}
			n := reflect.ValueOf(slice).Elem().Len()
			if n == 0 {
				continue
			}

			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				CreateInBatches(slice, importBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert into %s: %w", t.name, err)
			}
			counts[t.name] = n
			im.logger.Info("imported table", "table", t.name, "rows", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
