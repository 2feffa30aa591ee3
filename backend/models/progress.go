package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment tracks one account's progress in one course.
type Enrollment struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	Progress     float64   `gorm:"not null;default:0" json:"progress"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	LastAccessed time.Time `gorm:"index" json:"lastAccessed"`

	Course *Course `gorm:"-" json:"course,omitempty"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if err := e.Base.BeforeCreate(tx); err != nil {
		return err
	}
	now := time.Now()
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = now
	}
	if e.LastAccessed.IsZero() {
		e.LastAccessed = now
	}
	return nil
}

// ClampProgress bounds a percentage to [0, 100].
func ClampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
