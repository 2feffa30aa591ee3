package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"esiksha/backend/apperr"
	"esiksha/backend/metrics"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewInput struct {
	CourseID string `json:"courseId"`
	NotesID  string `json:"notesId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// Target resolves the tagged target; exactly one id must be set.
// A malformed id is reported like an unknown one.
func (in ReviewInput) Target() (models.ContentRef, error) {
	courseID, notesID := strings.TrimSpace(in.CourseID), strings.TrimSpace(in.NotesID)
	switch {
	case courseID != "" && notesID != "":
		return models.ContentRef{}, apperr.Validation("Review either a course or notes, not both")
	case courseID != "":
		id, err := uuid.Parse(courseID)
		if err != nil {
			return models.ContentRef{}, apperr.NotFound("Course not found")
		}
		return models.ContentRef{Kind: models.KindCourse, ID: id}, nil
	case notesID != "":
		id, err := uuid.Parse(notesID)
		if err != nil {
			return models.ContentRef{}, apperr.NotFound("Notes not found")
		}
		return models.ContentRef{Kind: models.KindNotes, ID: id}, nil
	}
	return models.ContentRef{}, apperr.Validation("Course ID or Notes ID is required")
}

type ReviewService interface {
	AddReview(ctx context.Context, principal *models.Principal, in ReviewInput) (*models.Review, error)
}

type reviewService struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewReviewService(db *gorm.DB, log *utils.Logger) ReviewService {
	return &reviewService{db: db, log: log.With("service", "ReviewService")}
}

type ratingAggregate struct {
	Count   int64
	Average float64
}

func targetModel(kind models.ContentKind) interface{} {
	if kind == models.KindNotes {
		return &models.Notes{}
	}
	return &models.Course{}
}

// AddReview stores the review and recomputes the target's aggregate in the same transaction.
func (s *reviewService) AddReview(ctx context.Context, principal *models.Principal, in ReviewInput) (*models.Review, error) {
	target, err := in.Target()
	if err != nil {
		return nil, err
	}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, apperr.Validation("Rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > models.MaxCommentLength {
		return nil, apperr.Validation("Comment cannot be longer than 500 characters")
	}

	review := &models.Review{
		UserID:   principal.ID,
		UserName: principal.FullName,
		Target:   target,
		Rating:   in.Rating,
		Comment:  comment,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(targetModel(target.Kind)).Where("id = ?", target.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if target.Kind == models.KindNotes {
				return apperr.NotFound("Notes not found")
			}
			return apperr.NotFound("Course not found")
		}

		var dup int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND target_kind = ? AND target_id = ?", principal.ID, target.Kind, target.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return apperr.Conflict("You have already reviewed this content")
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var agg ratingAggregate
		if err := tx.Model(&models.Review{}).
			Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
			Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(targetModel(target.Kind)).Where("id = ?", target.ID).
			UpdateColumns(map[string]interface{}{
				"rating":       agg.Average,
				"rating_count": agg.Count,
			}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict("You have already reviewed this content")
	}
	if err != nil {
		return nil, apperr.From(err)
	}

	metrics.RecordReview(string(target.Kind))
	s.log.Info("review added", "userId", principal.ID, "kind", target.Kind, "targetId", target.ID, "rating", in.Rating)
	return review, nil
}
