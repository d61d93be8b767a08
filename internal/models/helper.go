package models

import "time"

// AllTables lists every model in foreign-key order, used by migrate and by
// the JSON importer to load parents before children.
func AllTables() []interface{} {
	return []interface{}{
		&Profile{},
		&UserRole{},
		&Course{},
		&CourseModule{},
		&Lesson{},
		&Quiz{},
		&Question{},
		&Enrollment{},
		&UserSession{},
		&ActivityLog{},
		&LessonProgress{},
		&ReadingBehaviorLog{},
		&InteractionLog{},
		&QuizAttempt{},
		&QuestionResponse{},
		&QuizInteractionLog{},
		&CourseGrade{},
	}
}

// BehaviorTables lists the generated (non-catalog) tables in an order safe
// for deletion: children before parents.
func BehaviorTables() []interface{} {
	return []interface{}{
		&ReadingBehaviorLog{},
		&QuizInteractionLog{},
		&QuestionResponse{},
		&QuizAttempt{},
		&InteractionLog{},
		&LessonProgress{},
		&ActivityLog{},
		&UserSession{},
		&CourseGrade{},
		&Enrollment{},
		&UserRole{},
		&Profile{},
	}
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}
