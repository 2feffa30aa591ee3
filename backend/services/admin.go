package services

import (
	"context"

	"esiksha/backend/models"
	"esiksha/backend/utils"

	"gorm.io/gorm"
)

type RecentActivity struct {
	Users   []models.User   `json:"users"`
	Courses []models.Course `json:"courses"`
}

type AdminService interface {
	Stats(ctx context.Context) (*models.PlatformStats, *RecentActivity, error)
}

type adminService struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewAdminService(db *gorm.DB, log *utils.Logger) AdminService {
	return &adminService{db: db, log: log.With("service", "AdminService")}
}

func (s *adminService) Stats(ctx context.Context) (*models.PlatformStats, *RecentActivity, error) {
	db := s.db.WithContext(ctx)
	stats := &models.PlatformStats{}

	counts := []struct {
		model interface{}
		where []interface{}
		dest  *int64
	}{
		{&models.User{}, nil, &stats.TotalUsers},
		{&models.Course{}, nil, &stats.TotalCourses},
		{&models.Notes{}, nil, &stats.TotalNotes},
		{&models.Course{}, []interface{}{"status = ?", models.StatusPending}, &stats.PendingCourses},
		{&models.Notes{}, []interface{}{"status = ?", models.StatusPending}, &stats.PendingNotes},
		{&models.Course{}, []interface{}{"status = ?", models.StatusPublished}, &stats.PublishedCourses},
		{&models.Notes{}, []interface{}{"status = ?", models.StatusPublished}, &stats.PublishedNotes},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, nil, dbErr(err)
		}
	}

	recent := &RecentActivity{Users: []models.User{}, Courses: []models.Course{}}
	if err := db.Order("created_at DESC").Limit(5).Find(&recent.Users).Error; err != nil {
		return nil, nil, dbErr(err)
	}
	if err := db.Where("status = ?", models.StatusPublished).Order("created_at DESC").Limit(5).Find(&recent.Courses).Error; err != nil {
		return nil, nil, dbErr(err)
	}
	return stats, recent, nil
}
