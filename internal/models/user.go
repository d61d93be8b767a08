package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Profile is a simulated student identity. The assigned persona is stored
// alongside the name so read-back validation can group results by archetype
// instead of guessing from the roster.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;not null;type:uuid"`
	FullName  string    `json:"full_name" gorm:"not null;size:100"`
	Persona   string    `json:"persona" gorm:"size:20;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

type UserRole struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"not null;index;type:uuid"`
	Role      Role      `json:"role" gorm:"not null;size:20"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
