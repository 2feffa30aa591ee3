package services

import (
	"context"
	"errors"
	"time"

	"esiksha/backend/apperr"
	"esiksha/backend/metrics"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressUpdate carries only the fields the caller sent.
type ProgressUpdate struct {
	Progress  *float64 `json:"progress"`
	Completed *bool    `json:"completed"`
}

type EnrollmentService interface {
	// Enroll reports alreadyEnrolled=true when the pair existed before the call.
	Enroll(ctx context.Context, principal *models.Principal, courseID uuid.UUID) (enrollment *models.Enrollment, alreadyEnrolled bool, err error)
	UpdateProgress(ctx context.Context, principal *models.Principal, courseID uuid.UUID, in ProgressUpdate) (*models.Enrollment, error)
}

type enrollmentService struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewEnrollmentService(db *gorm.DB, log *utils.Logger) EnrollmentService {
	return &enrollmentService{db: db, log: log.With("service", "EnrollmentService")}
}

func findEnrollment(tx *gorm.DB, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	var e models.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func courseExists(tx *gorm.DB, courseID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return dbErr(err)
	}
	if count == 0 {
		return apperr.NotFound("Course not found")
	}
	return nil
}

// Enroll creates the enrollment, bumps the course counter and records the course on the
// account in one transaction.
func (s *enrollmentService) Enroll(ctx context.Context, principal *models.Principal, courseID uuid.UUID) (*models.Enrollment, bool, error) {
	var (
		result   *models.Enrollment
		existing bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := courseExists(tx, courseID); err != nil {
			return err
		}

		found, err := findEnrollment(tx, principal.ID, courseID)
		if err == nil {
			result, existing = found, true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment := &models.Enrollment{UserID: principal.ID, CourseID: courseID}
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
			UpdateColumn("students_enrolled", gorm.Expr("students_enrolled + ?", 1)).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Select("id", "enrolled_courses").First(&user, "id = ?", principal.ID).Error; err != nil {
			return lookupErr(err, "User not found")
		}
		if !user.HasEnrolled(courseID) {
			user.EnrolledCourses = append(user.EnrolledCourses, courseID)
			if err := tx.Model(&user).UpdateColumn("enrolled_courses", user.EnrolledCourses).Error; err != nil {
				return err
			}
		}
		result = enrollment
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent request enrolled first
		found, ferr := findEnrollment(s.db.WithContext(ctx), principal.ID, courseID)
		if ferr != nil {
			return nil, false, dbErr(ferr)
		}
		return found, true, nil
	}
	if err != nil {
		return nil, false, apperr.From(err)
	}

	if !existing {
		metrics.Enrollments.Inc()
		s.log.Info("user enrolled", "userId", principal.ID, "courseId", courseID)
	}
	return result, existing, nil
}

// UpdateProgress upserts the enrollment. Progress is clamped to [0, 100] and is independent
// of the completed flag.
func (s *enrollmentService) UpdateProgress(ctx context.Context, principal *models.Principal, courseID uuid.UUID, in ProgressUpdate) (*models.Enrollment, error) {
	db := s.db.WithContext(ctx)
	if err := courseExists(db, courseID); err != nil {
		return nil, err
	}

	attrs := map[string]interface{}{"last_accessed": time.Now().UTC()}
	if in.Progress != nil {
		attrs["progress"] = models.ClampProgress(*in.Progress)
	}
	if in.Completed != nil {
		attrs["completed"] = *in.Completed
	}

	upsert := func() (*models.Enrollment, error) {
		var e models.Enrollment
		err := db.Where(models.Enrollment{UserID: principal.ID, CourseID: courseID}).
			Assign(attrs).
			FirstOrCreate(&e).Error
		return &e, err
	}

	enrollment, err := upsert()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		enrollment, err = upsert()
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return enrollment, nil
}
