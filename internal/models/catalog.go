package models

import "time"

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// Catalog tables are read-only from the simulator's point of view: they are
// loaded once per run and never written outside of migrate/import.

type Course struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid"`
	Title           string          `json:"title" gorm:"not null;size:255"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level" gorm:"size:20"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	CourseID   string `json:"course_id" gorm:"not null;index;type:uuid"`
	Title      string `json:"title" gorm:"not null;size:255"`
	OrderIndex int    `json:"order_index" gorm:"not null"`
}

func (CourseModule) TableName() string {
	return "modules"
}

type Lesson struct {
	ID               string `json:"id" gorm:"primaryKey;type:uuid"`
	ModuleID         string `json:"module_id" gorm:"not null;index;type:uuid"`
	Title            string `json:"title" gorm:"not null;size:255"`
	EstimatedMinutes int    `json:"estimated_minutes" gorm:"default:10"`
	OrderIndex       int    `json:"order_index" gorm:"not null"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Quiz struct {
	ID               string `json:"id" gorm:"primaryKey;type:uuid"`
	ModuleID         string `json:"module_id" gorm:"not null;index;type:uuid"`
	Title            string `json:"title" gorm:"not null;size:255"`
	PassingScore     int    `json:"passing_score" gorm:"default:60"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	ID            string       `json:"id" gorm:"primaryKey;type:uuid"`
	QuizID        string       `json:"quiz_id" gorm:"not null;index;type:uuid"`
	QuestionType  QuestionType `json:"question_type" gorm:"size:30"`
	CorrectAnswer string       `json:"correct_answer" gorm:"type:text"`
	Points        int          `json:"points" gorm:"default:1"`
	OrderIndex    int          `json:"order_index"`
}

func (Question) TableName() string {
	return "questions"
}
