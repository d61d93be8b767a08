package models

import "time"

type AssessmentType string

const (
	AssessmentAssignment AssessmentType = "assignment"
	AssessmentMidterm    AssessmentType = "midterm"
	AssessmentFinal      AssessmentType = "final"
)

// CourseGrade is a summative, offline-graded score (assignments, midterm,
// final) on a 0-10 scale, weighted per assessment type.
type CourseGrade struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID         string         `json:"user_id" gorm:"not null;index;type:uuid"`
	CourseID       string         `json:"course_id" gorm:"not null;index;type:uuid"`
	AssessmentType AssessmentType `json:"assessment_type" gorm:"not null;size:50;index"`
	Title          string         `json:"title" gorm:"not null;size:255"`
	Score          float64        `json:"score" gorm:"not null" validate:"min=0,max=10"`
	Weight         float64        `json:"weight" gorm:"not null" validate:"min=0,max=1"`
	GradedAt       time.Time      `json:"graded_at" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (CourseGrade) TableName() string {
	return "course_grades"
}
