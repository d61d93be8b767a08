package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionView     ActionType = "view"
	ActionStart    ActionType = "start"
	ActionComplete ActionType = "complete"
)

type ResourceType string

const (
	ResourceCourse ResourceType = "course"
	ResourceLesson ResourceType = "lesson"
	ResourceQuiz   ResourceType = "quiz"
)

// UserSession is a bounded interval of continuous activity. Sessions are
// generated sequentially along a user's timeline and never overlap.
type UserSession struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       string         `json:"user_id" gorm:"not null;index;type:uuid"`
	SessionToken string         `json:"session_token" gorm:"size:64"`
	DeviceInfo   datatypes.JSON `json:"device_info" gorm:"type:jsonb"`
	StartedAt    time.Time      `json:"started_at" gorm:"not null;index"`
	EndedAt      time.Time      `json:"ended_at" gorm:"not null"`
	IsActive     bool           `json:"is_active" gorm:"default:false"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// ActivityLog records one {view|start|complete} x {course|lesson|quiz} event.
// Its timestamp falls inside the owning session's interval.
type ActivityLog struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       string         `json:"user_id" gorm:"not null;index;type:uuid"`
	SessionID    string         `json:"session_id" gorm:"not null;index;type:uuid"`
	Timestamp    time.Time      `json:"timestamp" gorm:"not null;index"`
	ActionType   ActionType     `json:"action_type" gorm:"not null;size:20"`
	ResourceType ResourceType   `json:"resource_type" gorm:"not null;size:20"`
	ResourceID   string         `json:"resource_id" gorm:"not null;type:uuid"`
	DurationMs   *int           `json:"duration_ms"`
	Metadata     datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	ClientInfo   datatypes.JSON `json:"client_info" gorm:"type:jsonb"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
