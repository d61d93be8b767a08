package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies run lifecycle events emitted while generating data.
type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventUserGenerated EventType = "user_generated"
	EventRunCompleted  EventType = "run_completed"
	EventRunFailed     EventType = "run_failed"
)

// RunEvent is the envelope published to the run events topic.
type RunEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Data      RunData   `json:"data"`
}

// RunData carries the type-specific payload. Fields are filled per event
// type and omitted otherwise.
type RunData struct {
	Seed        int64          `json:"seed,omitempty"`
	UserCount   int            `json:"user_count,omitempty"`
	WindowStart *time.Time     `json:"window_start,omitempty"`
	WindowEnd   *time.Time     `json:"window_end,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	Persona     string         `json:"persona,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// NewRunEvent builds an event envelope with a fresh ID and timestamp.
func NewRunEvent(eventType EventType, runID string, data RunData) *RunEvent {
	return &RunEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Source:    "datasim",
		Version:   "1.0",
		Data:      data,
	}
}
