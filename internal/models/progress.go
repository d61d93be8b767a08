package models

import (
	"time"

	"gorm.io/datatypes"
)

// LessonProgress is one row per (user, lesson) visit outcome. IsCompleted
// implies ProgressPercentage == 100 and a non-nil CompletedAt.
type LessonProgress struct {
	ID                 string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID             string         `json:"user_id" gorm:"not null;index;type:uuid"`
	LessonID           string         `json:"lesson_id" gorm:"not null;index;type:uuid"`
	IsCompleted        bool           `json:"is_completed" gorm:"not null"`
	ProgressPercentage int            `json:"progress_percentage" gorm:"not null" validate:"min=0,max=100"`
	TimeSpentSeconds   int            `json:"time_spent_seconds" gorm:"not null"`
	StartedAt          time.Time      `json:"started_at" gorm:"not null"`
	CompletedAt        *time.Time     `json:"completed_at"`
	LastPosition       datatypes.JSON `json:"last_position" gorm:"type:jsonb"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// ReadingBehaviorLog captures dwell time and scroll depth for one lesson
// reading stretch. No cross-entity invariants beyond valid references.
type ReadingBehaviorLog struct {
	ID                 string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID             string         `json:"user_id" gorm:"not null;index;type:uuid"`
	LessonID           string         `json:"lesson_id" gorm:"not null;index;type:uuid"`
	SessionID          string         `json:"session_id" gorm:"not null;type:uuid"`
	Timestamp          time.Time      `json:"timestamp" gorm:"not null"`
	DwellTimeMs        int            `json:"dwell_time_ms" gorm:"not null"`
	ScrollDepthPercent int            `json:"scroll_depth_percent" gorm:"not null" validate:"min=0,max=100"`
	ActionType         string         `json:"action_type" gorm:"size:20"`
	Metadata           datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
}

func (ReadingBehaviorLog) TableName() string {
	return "reading_behavior_logs"
}

// InteractionLog is an element-level UI interaction inside a lesson.
type InteractionLog struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID          string         `json:"user_id" gorm:"not null;index;type:uuid"`
	LessonID        string         `json:"lesson_id" gorm:"not null;index;type:uuid"`
	SessionID       string         `json:"session_id" gorm:"not null;type:uuid"`
	Timestamp       time.Time      `json:"timestamp" gorm:"not null"`
	ElementID       string         `json:"element_id" gorm:"size:100"`
	InteractionType string         `json:"interaction_type" gorm:"size:30"`
	Metadata        datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
}

func (InteractionLog) TableName() string {
	return "interaction_logs"
}
