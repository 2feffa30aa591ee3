package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelAll          Level = "all-levels"
)

func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelAll, true
	}
	switch l := Level(s); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return l, true
	}
	return "", false
}

const (
	DefaultCourseDuration = "10 hours"
	DefaultVideoDuration  = "10:00"
)

type Video struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Duration  string `json:"duration"`
	IsPreview bool   `json:"isPreview"`
}

type CourseModule struct {
	Title  string  `json:"title"`
	Videos []Video `json:"videos"`
}

type Course struct {
	Base
	Moderation
	Title            string                            `gorm:"not null" json:"title"`
	Description      string                            `gorm:"type:text;not null" json:"description"`
	Thumbnail        string                            `gorm:"not null" json:"thumbnail"`
	Category         string                            `gorm:"index;not null" json:"category"`
	Level            Level                             `gorm:"type:varchar(20);default:all-levels" json:"level"`
	Duration         string                            `json:"duration"`
	Tags             datatypes.JSONSlice[string]       `json:"tags"`
	InstructorID     uuid.UUID                         `gorm:"type:uuid;index;not null" json:"instructorId"`
	InstructorName   string                            `json:"instructorName"`
	IsFree           bool                              `json:"isFree"`
	Price            float64                           `json:"price"`
	YoutubeURL       string                            `json:"youtubeUrl"`
	Modules          datatypes.JSONSlice[CourseModule] `json:"modules"`
	Rating           float64                           `json:"rating"`
	RatingCount      int64                             `json:"totalRatings"`
	StudentsEnrolled int64                             `json:"studentsEnrolled"`

	Instructor *AuthorRef `gorm:"-" json:"instructor,omitempty"`
}
