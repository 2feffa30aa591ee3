package models

import (
	"errors"
	"strings"
	"time"
)

type ModerationStatus string

const (
	StatusDraft     ModerationStatus = "draft"
	StatusPending   ModerationStatus = "pending"
	StatusPublished ModerationStatus = "published"
	StatusRejected  ModerationStatus = "rejected"
)

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

var ErrInvalidAction = errors.New("invalid moderation action")

func ParseModerationAction(s string) (ModerationAction, error) {
	switch a := ModerationAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionApprove, ActionReject:
		return a, nil
	}
	return "", ErrInvalidAction
}

// ContentKind discriminates moderated and reviewable content.
type ContentKind string

const (
	KindCourse ContentKind = "course"
	KindNotes  ContentKind = "notes"
)

func ParseContentKind(s string) (ContentKind, bool) {
	switch k := ContentKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCourse, KindNotes:
		return k, true
	}
	return "", false
}

// Moderation is embedded by every moderated content type.
type Moderation struct {
	Status          ModerationStatus `gorm:"type:varchar(20);default:pending;index;not null" json:"status"`
	RejectionReason *string          `json:"rejectionReason,omitempty"`
	PublishedAt     *time.Time       `json:"publishedAt,omitempty"`
}

// NewModeration returns the initial state of a submission.
func NewModeration(publishDirectly bool, now time.Time) Moderation {
	if publishDirectly {
		return Moderation{Status: StatusPublished, PublishedAt: &now}
	}
	return Moderation{Status: StatusPending}
}

// Apply performs an admin decision. Approve keeps any earlier rejection reason,
// reject keeps any earlier publication time.
func (m *Moderation) Apply(action ModerationAction, reason string, now time.Time) error {
	switch action {
	case ActionApprove:
		m.Status = StatusPublished
		m.PublishedAt = &now
	case ActionReject:
		m.Status = StatusRejected
		if reason = strings.TrimSpace(reason); reason != "" {
			m.RejectionReason = &reason
		}
	default:
		return ErrInvalidAction
	}
	return nil
}

func (m Moderation) IsPublished() bool {
	return m.Status == StatusPublished
}

// Moderated is implemented by content that passes through the moderation queue.
type Moderated interface {
	ModerationState() *Moderation
	ContentTitle() string
}

func (c *Course) ModerationState() *Moderation { return &c.Moderation }
func (c *Course) ContentTitle() string         { return c.Title }

func (n *Notes) ModerationState() *Moderation { return &n.Moderation }
func (n *Notes) ContentTitle() string         { return n.Title }
