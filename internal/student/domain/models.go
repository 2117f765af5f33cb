package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StudentStatusActive    = "ACTIVE"
	StudentStatusInactive  = "INACTIVE"
	StudentStatusGraduated = "GRADUATED"
)

// Student is the billed party. Guardian contact fields are subject to
// role-based masking on every reporting output.
type Student struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	ExternalID    string       `gorm:"uniqueIndex;not null" json:"external_id"`
	FirstName     string       `gorm:"not null" json:"first_name"`
	LastName      string       `gorm:"not null" json:"last_name"`
	Grade         string       `gorm:"not null;index:idx_students_school_grade,priority:2" json:"grade"`
	SchoolID      string       `gorm:"not null;index:idx_students_school_grade,priority:1" json:"school_id"`
	SchoolName    string       `gorm:"not null" json:"school_name"`
	GuardianEmail string       `gorm:"not null" json:"guardian_email"`
	GuardianPhone string       `gorm:"not null" json:"guardian_phone"`
	Status        string       `gorm:"not null;default:ACTIVE" json:"status"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Student) TableName() string { return "students" }
