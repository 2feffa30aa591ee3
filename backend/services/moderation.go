package services

import (
	"context"
	"time"

	"esiksha/backend/apperr"
	"esiksha/backend/metrics"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PendingContent struct {
	Courses []models.Course      `json:"courses"`
	Notes   []models.Notes       `json:"notes"`
	Counts  models.PendingCounts `json:"counts"`
}

// Decision is the outcome of an approve/reject call.
type Decision struct {
	Kind            models.ContentKind      `json:"kind"`
	ID              uuid.UUID               `json:"id"`
	Title           string                  `json:"title"`
	Status          models.ModerationStatus `json:"status"`
	RejectionReason *string                 `json:"rejectionReason,omitempty"`
	PublishedAt     *time.Time              `json:"publishedAt,omitempty"`
}

type ModerationService interface {
	ListPending(ctx context.Context) (*PendingContent, error)
	Moderate(ctx context.Context, kind, action string, id uuid.UUID, reason string) (*Decision, error)
}

type moderationService struct {
	db  *gorm.DB
	log *utils.Logger
	now func() time.Time
}

func NewModerationService(db *gorm.DB, log *utils.Logger) ModerationService {
	return &moderationService{
		db:  db,
		log: log.With("service", "ModerationService"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *moderationService) ListPending(ctx context.Context) (*PendingContent, error) {
	db := s.db.WithContext(ctx)

	courses := []models.Course{}
	if err := db.Where("status = ?", models.StatusPending).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, dbErr(err)
	}
	notes := []models.Notes{}
	if err := db.Where("status = ?", models.StatusPending).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, dbErr(err)
	}

	ids := make([]uuid.UUID, 0, len(courses)+len(notes))
	for _, c := range courses {
		ids = append(ids, c.InstructorID)
	}
	for _, n := range notes {
		ids = append(ids, n.AuthorID)
	}
	authors, err := loadAuthors(ctx, s.db, ids, true)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Instructor = authors[courses[i].InstructorID]
	}
	for i := range notes {
		notes[i].Author = authors[notes[i].AuthorID]
	}

	return &PendingContent{
		Courses: courses,
		Notes:   notes,
		Counts: models.PendingCounts{
			Courses: int64(len(courses)),
			Notes:   int64(len(notes)),
			Total:   int64(len(courses) + len(notes)),
		},
	}, nil
}

// Moderate validates action and kind before touching storage.
func (s *moderationService) Moderate(ctx context.Context, kind, action string, id uuid.UUID, reason string) (*Decision, error) {
	act, err := models.ParseModerationAction(action)
	if err != nil {
		return nil, apperr.Validation("Invalid action. Use approve or reject")
	}
	contentKind, ok := models.ParseContentKind(kind)
	if !ok {
		return nil, apperr.Validation("Invalid content type. Use course or notes")
	}

	var item models.Moderated
	notFound := "Course not found"
	switch contentKind {
	case models.KindCourse:
		item = &models.Course{}
	case models.KindNotes:
		item = &models.Notes{}
		notFound = "Notes not found"
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(item, "id = ?", id).Error; err != nil {
			return lookupErr(err, notFound)
		}
		if err := item.ModerationState().Apply(act, reason, s.now()); err != nil {
			return apperr.Validation(err.Error())
		}
		return tx.Model(item).
			Select("status", "rejection_reason", "published_at", "updated_at").
			Updates(item).Error
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	state := item.ModerationState()
	metrics.RecordModeration(string(contentKind), string(act))
	s.log.Info("content moderated", "kind", contentKind, "id", id, "action", act, "status", state.Status)

	return &Decision{
		Kind:            contentKind,
		ID:              id,
		Title:           item.ContentTitle(),
		Status:          state.Status,
		RejectionReason: state.RejectionReason,
		PublishedAt:     state.PublishedAt,
	}, nil
}
