package services

import (
	"context"
	"math"
	"mime/multipart"
	"strings"

	"esiksha/backend/apperr"
	"esiksha/backend/models"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileUpdate carries only the fields the caller sent.
type ProfileUpdate struct {
	FullName *string
	Bio      *string
	Skills   *[]string
}

type Dashboard struct {
	User          *models.User          `json:"user"`
	RecentCourses []models.Enrollment   `json:"recentCourses"`
	Stats         models.DashboardStats `json:"stats"`
}

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, principal *models.Principal, in ProfileUpdate, avatar *multipart.FileHeader) (*models.User, error)
	Dashboard(ctx context.Context, principal *models.Principal) (*Dashboard, error)
	List(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
}

type userService struct {
	db    *gorm.DB
	log   *utils.Logger
	store storage.Uploader
}

func NewUserService(db *gorm.DB, log *utils.Logger, store storage.Uploader) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), store: store}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "User not found")
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, principal *models.Principal, in ProfileUpdate, avatar *multipart.FileHeader) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.Validation("Full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Skills != nil {
		cleaned := datatypes.JSONSlice[string]{}
		for _, sk := range *in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				cleaned = append(cleaned, sk)
			}
		}
		updates["skills"] = cleaned
	}

	user, err := s.Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	var stored *storage.StoredFile
	if avatar != nil {
		stored, err = s.store.Save(avatar, storage.Images)
		if err != nil {
			return nil, err
		}
		updates["avatar"] = stored.URL
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if stored != nil {
			_ = s.store.Remove(stored.URL)
		}
		return nil, dbErr(err)
	}
	return s.Get(ctx, principal.ID)
}

func (s *userService) Dashboard(ctx context.Context, principal *models.Principal) (*Dashboard, error) {
	user, err := s.Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var recent []models.Enrollment
	if err := db.Where("user_id = ?", principal.ID).Order("last_accessed DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, dbErr(err)
	}
	courseIDs := make([]uuid.UUID, 0, len(recent))
	for _, e := range recent {
		courseIDs = append(courseIDs, e.CourseID)
	}
	if len(courseIDs) > 0 {
		var courses []models.Course
		if err := db.Select("id", "title", "thumbnail", "category", "level").Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
			return nil, dbErr(err)
		}
		byID := make(map[uuid.UUID]*models.Course, len(courses))
		for i := range courses {
			byID[courses[i].ID] = &courses[i]
		}
		for i := range recent {
			recent[i].Course = byID[recent[i].CourseID]
		}
	}

	var stats models.DashboardStats
	var agg struct {
		Total     int64
		Completed int64
		Average   float64
	}
	if err := db.Model(&models.Enrollment{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed, COALESCE(AVG(progress), 0) AS average").
		Where("user_id = ?", principal.ID).
		Scan(&agg).Error; err != nil {
		return nil, dbErr(err)
	}
	stats.TotalEnrollments = agg.Total
	stats.CompletedCourses = agg.Completed
	stats.AverageProgress = math.Round(agg.Average)

	if err := db.Model(&models.Course{}).Where("instructor_id = ?", principal.ID).Count(&stats.SubmittedCourses).Error; err != nil {
		return nil, dbErr(err)
	}
	if err := db.Model(&models.Notes{}).Where("author_id = ?", principal.ID).Count(&stats.SubmittedNotes).Error; err != nil {
		return nil, dbErr(err)
	}

	return &Dashboard{User: user, RecentCourses: recent, Stats: stats}, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, dbErr(err)
	}
	return users, nil
}

func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("is_active", active).Error; err != nil {
		return nil, dbErr(err)
	}
	user.IsActive = active
	s.log.Info("account status changed", "userId", id, "isActive", active)
	return user, nil
}
