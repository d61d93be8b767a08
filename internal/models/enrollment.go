package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentInactive  EnrollmentStatus = "inactive"
)

// Enrollment ties a user to a course. EnrolledAt must precede every session,
// activity and attempt timestamp that references the same (user, course); the
// consistency guard in the simulation package maintains that invariant.
type Enrollment struct {
	ID                 string           `json:"id" gorm:"primaryKey;type:uuid"`
	UserID             string           `json:"user_id" gorm:"not null;index:idx_enrollments_user_course;type:uuid"`
	CourseID           string           `json:"course_id" gorm:"not null;index:idx_enrollments_user_course;type:uuid"`
	Status             EnrollmentStatus `json:"status" gorm:"not null;size:20"`
	ProgressPercentage int              `json:"progress_percentage" gorm:"not null" validate:"min=0,max=100"`
	EnrolledAt         time.Time        `json:"enrolled_at" gorm:"not null"`
	CompletedAt        *time.Time       `json:"completed_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
