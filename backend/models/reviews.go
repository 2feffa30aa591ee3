package models

import "github.com/google/uuid"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// ContentRef identifies the reviewed item.
type ContentRef struct {
	Kind ContentKind `gorm:"column:target_kind;type:varchar(10);not null;uniqueIndex:idx_review_user_target;index:idx_review_target" json:"kind"`
	ID   uuid.UUID   `gorm:"column:target_id;type:uuid;not null;uniqueIndex:idx_review_user_target;index:idx_review_target" json:"id"`
}

type Review struct {
	Base
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_target" json:"userId"`
	UserName string     `json:"userName"`
	Target   ContentRef `gorm:"embedded" json:"target"`
	Rating   int        `gorm:"not null" json:"rating"`
	Comment  string     `gorm:"type:varchar(500)" json:"comment"`

	User *AuthorRef `gorm:"-" json:"user,omitempty"`
}
