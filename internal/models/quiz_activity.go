package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuizActionType string

const (
	QuizActionView        QuizActionType = "view"
	QuizActionHintRequest QuizActionType = "hint_request"
	QuizActionAnswer      QuizActionType = "answer"
	QuizActionSubmit      QuizActionType = "submit"
)

// QuizAttempt is one scored submission. AttemptNumber is a contiguous
// sequence per (user, quiz) starting at 1, and Score always equals the sum
// of PointsEarned over the attempt's question responses.
type QuizAttempt struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID           string    `json:"user_id" gorm:"not null;index:idx_attempts_user_quiz;type:uuid"`
	QuizID           string    `json:"quiz_id" gorm:"not null;index:idx_attempts_user_quiz;type:uuid"`
	AttemptNumber    int       `json:"attempt_number" gorm:"not null" validate:"min=1"`
	Score            int       `json:"score" gorm:"not null"`
	MaxScore         int       `json:"max_score" gorm:"not null"`
	IsPassed         bool      `json:"is_passed" gorm:"not null"`
	StartedAt        time.Time `json:"started_at" gorm:"not null"`
	CompletedAt      time.Time `json:"completed_at" gorm:"not null"`
	TimeSpentSeconds int       `json:"time_spent_seconds" gorm:"not null"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuestionResponse records the submitted answer for one question of an
// attempt. PointsEarned is 0 or the question's full point value.
type QuestionResponse struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	AttemptID        string    `json:"attempt_id" gorm:"not null;index;type:uuid"`
	QuestionID       string    `json:"question_id" gorm:"not null;index;type:uuid"`
	UserAnswer       string    `json:"user_answer" gorm:"type:text"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null"`
	PointsEarned     int       `json:"points_earned" gorm:"not null"`
	TimeSpentSeconds int       `json:"time_spent_seconds" gorm:"not null"`
	AnsweredAt       time.Time `json:"answered_at" gorm:"not null"`
}

func (QuestionResponse) TableName() string {
	return "question_responses"
}

// QuizInteractionLog is the fine-grained deliberation stream for one
// question: view, optional hint_request, one or more answer events, and a
// terminal submit whose answer and correctness match the QuestionResponse.
type QuizInteractionLog struct {
	ID                 string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID             string         `json:"user_id" gorm:"not null;index;type:uuid"`
	AttemptID          string         `json:"attempt_id" gorm:"not null;index;type:uuid"`
	QuestionID         string         `json:"question_id" gorm:"not null;index;type:uuid"`
	Timestamp          time.Time      `json:"timestamp" gorm:"not null"`
	ActionType         QuizActionType `json:"action_type" gorm:"not null;size:20"`
	AnswerGiven        *string        `json:"answer_given" gorm:"type:text"`
	IsCorrect          *bool          `json:"is_correct"`
	TimeSpentMs        int            `json:"time_spent_ms"`
	AnswerChangesCount int            `json:"answer_changes_count"`
	HintUsed           bool           `json:"hint_used"`
	Metadata           datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
}

func (QuizInteractionLog) TableName() string {
	return "quiz_interaction_logs"
}
