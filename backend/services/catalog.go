package services

import (
	"context"

	"esiksha/backend/apperr"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const detailReviewLimit = 10

type CourseView struct {
	models.Course
	IsEnrolled bool `json:"isEnrolled"`
}

type CourseDetail struct {
	CourseView
	Reviews []models.Review `json:"reviews"`
}

type NotesDetail struct {
	models.Notes
	Reviews []models.Review `json:"reviews"`
}

// CatalogService serves published listings and unfiltered single-item lookups.
type CatalogService interface {
	ListCourses(ctx context.Context, q ListQuery, viewer *models.Principal) ([]CourseView, models.Pagination, error)
	GetCourse(ctx context.Context, id uuid.UUID, viewer *models.Principal) (*CourseDetail, error)
	ListNotes(ctx context.Context, q ListQuery) ([]models.Notes, models.Pagination, error)
	GetNote(ctx context.Context, id uuid.UUID) (*NotesDetail, error)
	DownloadNote(ctx context.Context, id uuid.UUID) (*models.Notes, error)
}

type catalogService struct {
	db  *gorm.DB
	log *utils.Logger
}

func NewCatalogService(db *gorm.DB, log *utils.Logger) CatalogService {
	return &catalogService{db: db, log: log.With("service", "CatalogService")}
}

func (s *catalogService) courseFilter(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.StatusPublished)
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.Level != "" {
			db = db.Where("level = ?", q.Level)
		}
		if q.Search != "" {
			like := likePattern(q.Search)
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(CAST(tags AS TEXT)) LIKE ? ESCAPE '\')`, like, like, like)
		}
		return db
	}
}

func (s *catalogService) notesFilter(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.StatusPublished)
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.Search != "" {
			like := likePattern(q.Search)
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(CAST(tags AS TEXT)) LIKE ? ESCAPE '\')`, like, like, like)
		}
		return db
	}
}

func (s *catalogService) ListCourses(ctx context.Context, q ListQuery, viewer *models.Principal) ([]CourseView, models.Pagination, error) {
	q.normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Course{}).Scopes(s.courseFilter(q)).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, dbErr(err)
	}

	var courses []models.Course
	if err := db.Scopes(s.courseFilter(q)).
		Order("created_at DESC").
		Offset(q.offset()).
		Limit(q.Limit).
		Find(&courses).Error; err != nil {
		return nil, models.Pagination{}, dbErr(err)
	}

	ids := make([]uuid.UUID, 0, len(courses))
	instructors := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
		instructors = append(instructors, c.InstructorID)
	}

	authors, err := loadAuthors(ctx, s.db, instructors, false)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	enrolled, err := s.enrolledSet(ctx, viewer, ids)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		c.Instructor = authors[c.InstructorID]
		_, isEnrolled := enrolled[c.ID]
		views = append(views, CourseView{Course: c, IsEnrolled: isEnrolled})
	}
	return views, models.NewPagination(q.Page, q.Limit, total), nil
}

// enrolledSet returns which of courseIDs the viewer is enrolled in.
func (s *catalogService) enrolledSet(ctx context.Context, viewer *models.Principal, courseIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	if viewer == nil || len(courseIDs) == 0 {
		return out, nil
	}
	var rows []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", viewer.ID, courseIDs).
		Pluck("course_id", &rows).Error; err != nil {
		return nil, dbErr(err)
	}
	for _, id := range rows {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uuid.UUID, viewer *models.Principal) (*CourseDetail, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "Course not found")
	}

	authors, err := loadAuthors(ctx, s.db, []uuid.UUID{course.InstructorID}, false)
	if err != nil {
		return nil, err
	}
	course.Instructor = authors[course.InstructorID]

	reviews, err := s.latestReviews(ctx, models.ContentRef{Kind: models.KindCourse, ID: id})
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrolledSet(ctx, viewer, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	_, isEnrolled := enrolled[id]

	return &CourseDetail{
		CourseView: CourseView{Course: course, IsEnrolled: isEnrolled},
		Reviews:    reviews,
	}, nil
}

func (s *catalogService) latestReviews(ctx context.Context, target models.ContentRef) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at DESC").
		Limit(detailReviewLimit).
		Find(&reviews).Error; err != nil {
		return nil, dbErr(err)
	}
	userIDs := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
	}
	users, err := loadAuthors(ctx, s.db, userIDs, false)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].User = users[reviews[i].UserID]
	}
	return reviews, nil
}

func (s *catalogService) ListNotes(ctx context.Context, q ListQuery) ([]models.Notes, models.Pagination, error) {
	q.normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Notes{}).Scopes(s.notesFilter(q)).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, dbErr(err)
	}

	notes := []models.Notes{}
	if err := db.Scopes(s.notesFilter(q)).
		Order("created_at DESC").
		Offset(q.offset()).
		Limit(q.Limit).
		Find(&notes).Error; err != nil {
		return nil, models.Pagination{}, dbErr(err)
	}

	authorIDs := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		authorIDs = append(authorIDs, n.AuthorID)
	}
	authors, err := loadAuthors(ctx, s.db, authorIDs, false)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	for i := range notes {
		notes[i].Author = authors[notes[i].AuthorID]
	}
	return notes, models.NewPagination(q.Page, q.Limit, total), nil
}

// GetNote counts every lookup as a download.
func (s *catalogService) GetNote(ctx context.Context, id uuid.UUID) (*NotesDetail, error) {
	notes, err := s.incrementDownloads(ctx, id)
	if err != nil {
		return nil, err
	}

	authors, err := loadAuthors(ctx, s.db, []uuid.UUID{notes.AuthorID}, false)
	if err != nil {
		return nil, err
	}
	notes.Author = authors[notes.AuthorID]

	reviews, err := s.latestReviews(ctx, models.ContentRef{Kind: models.KindNotes, ID: id})
	if err != nil {
		return nil, err
	}
	return &NotesDetail{Notes: *notes, Reviews: reviews}, nil
}

func (s *catalogService) DownloadNote(ctx context.Context, id uuid.UUID) (*models.Notes, error) {
	var notes models.Notes
	if err := s.db.WithContext(ctx).First(&notes, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "Notes not found")
	}
	switch {
	case notes.ContentType == models.ContentFile && notes.FileURL != "":
	case notes.ContentType == models.ContentLink && notes.ExternalURL != "":
	default:
		return nil, apperr.Validation("No downloadable content available")
	}
	return s.incrementDownloads(ctx, id)
}

func (s *catalogService) incrementDownloads(ctx context.Context, id uuid.UUID) (*models.Notes, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Notes{}).Where("id = ?", id).UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if res.Error != nil {
		return nil, dbErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Notes not found")
	}
	var notes models.Notes
	if err := db.First(&notes, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "Notes not found")
	}
	return &notes, nil
}
