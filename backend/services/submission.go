package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"esiksha/backend/apperr"
	"esiksha/backend/authz"
	"esiksha/backend/metrics"
	"esiksha/backend/models"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseSubmission struct {
	Title        string  `json:"title" form:"title" validate:"required,max=200"`
	Description  string  `json:"description" form:"description" validate:"required"`
	Category     string  `json:"category" form:"category" validate:"required"`
	Level        string  `json:"level" form:"level"`
	Duration     string  `json:"duration" form:"duration"`
	IsFree       bool    `json:"isFree" form:"isFree"`
	Price        float64 `json:"price" form:"price"`
	Tags         string  `json:"tags" form:"tags"`
	YoutubeURL   string  `json:"youtubeUrl" form:"youtubeUrl"`
	Modules      string  `json:"modules" form:"modules"`
	ThumbnailURL string  `json:"thumbnailUrl" form:"thumbnailUrl"`
}

type NotesSubmission struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category" validate:"required"`
	Tags        string `json:"tags" form:"tags"`
	Pages       int    `json:"pages" form:"pages" validate:"gte=0"`
	ContentType string `json:"contentType" form:"contentType" validate:"required,oneof=file link"`
	ExternalURL string `json:"externalUrl" form:"externalUrl"`
	URLType     string `json:"urlType" form:"urlType"`
}

// NotesFiles holds the optional uploads of a notes submission.
type NotesFiles struct {
	File      *multipart.FileHeader
	Thumbnail *multipart.FileHeader
}

type SubmissionService interface {
	SubmitCourse(ctx context.Context, principal *models.Principal, in CourseSubmission, thumbnail *multipart.FileHeader) (*models.Course, error)
	SubmitNotes(ctx context.Context, principal *models.Principal, in NotesSubmission, files NotesFiles) (*models.Notes, error)
}

type submissionService struct {
	db    *gorm.DB
	log   *utils.Logger
	store storage.Uploader
	authz *authz.Enforcer
}

func NewSubmissionService(db *gorm.DB, log *utils.Logger, store storage.Uploader, enforcer *authz.Enforcer) SubmissionService {
	return &submissionService{
		db:    db,
		log:   log.With("service", "SubmissionService"),
		store: store,
		authz: enforcer,
	}
}

// ParseModules decodes the modules form field and fills video defaults.
func ParseModules(raw string) ([]models.CourseModule, error) {
	modules := []models.CourseModule{}
	if strings.TrimSpace(raw) == "" {
		return modules, nil
	}
	if err := json.Unmarshal([]byte(raw), &modules); err != nil {
		return nil, apperr.Validation("Modules must be a valid JSON array")
	}
	for i := range modules {
		m := &modules[i]
		m.Title = strings.TrimSpace(m.Title)
		if m.Title == "" {
			return nil, apperr.Validationf("Module %d title is required", i+1)
		}
		if m.Videos == nil {
			m.Videos = []models.Video{}
		}
		for j := range m.Videos {
			v := &m.Videos[j]
			v.Title = strings.TrimSpace(v.Title)
			v.URL = strings.TrimSpace(v.URL)
			if v.Title == "" || v.URL == "" {
				return nil, apperr.Validationf("Module %d video %d needs a title and url", i+1, j+1)
			}
			if v.Duration == "" {
				v.Duration = models.DefaultVideoDuration
			}
		}
	}
	return modules, nil
}

func trimCourse(in *CourseSubmission) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Duration = strings.TrimSpace(in.Duration)
	in.YoutubeURL = strings.TrimSpace(in.YoutubeURL)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
}

func (s *submissionService) SubmitCourse(ctx context.Context, principal *models.Principal, in CourseSubmission, thumbnail *multipart.FileHeader) (*models.Course, error) {
	trimCourse(&in)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}
	level, ok := models.ParseLevel(in.Level)
	if !ok {
		return nil, apperr.Validation("Invalid course level")
	}
	price := in.Price
	if in.IsFree {
		price = 0
	} else if price < 0 {
		return nil, apperr.Validation("Price cannot be negative")
	}
	if in.YoutubeURL != "" && !isHTTPURL(in.YoutubeURL) {
		return nil, apperr.Validation("YouTube URL must be a valid http(s) URL")
	}
	modules, err := ParseModules(in.Modules)
	if err != nil {
		return nil, err
	}
	if thumbnail == nil {
		if in.ThumbnailURL == "" {
			return nil, apperr.Validation("Thumbnail is required")
		}
		if !isHTTPURL(in.ThumbnailURL) {
			return nil, apperr.Validation("Thumbnail URL must be a valid http(s) URL")
		}
	}
	duration := in.Duration
	if duration == "" {
		duration = models.DefaultCourseDuration
	}

	thumbURL := in.ThumbnailURL
	var stored *storage.StoredFile
	if thumbnail != nil {
		if stored, err = s.store.Save(thumbnail, storage.Images); err != nil {
			return nil, err
		}
		thumbURL = stored.URL
		metrics.UploadBytes.Add(float64(stored.Size))
	}

	course := &models.Course{
		Moderation:     models.NewModeration(s.authz.Can(principal.Role, authz.PublishContent), time.Now().UTC()),
		Title:          in.Title,
		Description:    in.Description,
		Thumbnail:      thumbURL,
		Category:       in.Category,
		Level:          level,
		Duration:       duration,
		Tags:           datatypes.JSONSlice[string](SplitTags(in.Tags)),
		InstructorID:   principal.ID,
		InstructorName: principal.FullName,
		IsFree:         in.IsFree,
		Price:          price,
		YoutubeURL:     in.YoutubeURL,
		Modules:        datatypes.JSONSlice[models.CourseModule](modules),
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		if stored != nil {
			_ = s.store.Remove(stored.URL)
		}
		return nil, dbErr(err)
	}

	metrics.RecordSubmission(string(models.KindCourse), string(course.Status))
	s.log.Info("course submitted", "courseId", course.ID, "instructorId", principal.ID, "status", course.Status)
	return course, nil
}

func (s *submissionService) SubmitNotes(ctx context.Context, principal *models.Principal, in NotesSubmission, files NotesFiles) (*models.Notes, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ContentType = strings.ToLower(strings.TrimSpace(in.ContentType))
	in.ExternalURL = strings.TrimSpace(in.ExternalURL)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	contentType := models.ContentType(in.ContentType)
	var urlType models.URLType
	switch contentType {
	case models.ContentFile:
		if files.File == nil {
			return nil, apperr.Validation("File is required for file uploads")
		}
	case models.ContentLink:
		if in.ExternalURL == "" {
			return nil, apperr.Validation("External URL is required for link submissions")
		}
		if !isHTTPURL(in.ExternalURL) {
			return nil, apperr.Validation("External URL must be a valid http(s) URL")
		}
		urlType = models.URLType(strings.ToLower(strings.TrimSpace(in.URLType)))
		if !urlType.Valid() {
			urlType = models.DetectURLType(in.ExternalURL)
		}
	}

	notes := &models.Notes{
		Moderation:  models.NewModeration(s.authz.Can(principal.Role, authz.PublishContent), time.Now().UTC()),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tags:        datatypes.JSONSlice[string](SplitTags(in.Tags)),
		AuthorID:    principal.ID,
		AuthorName:  principal.FullName,
		ContentType: contentType,
		Pages:       in.Pages,
		IsFree:      true,
	}
	if contentType == models.ContentLink {
		notes.ExternalURL = in.ExternalURL
		notes.URLType = urlType
	}

	var saved []*storage.StoredFile
	cleanup := func() {
		for _, f := range saved {
			_ = s.store.Remove(f.URL)
		}
	}
	if contentType == models.ContentFile {
		f, err := s.store.Save(files.File, storage.Documents)
		if err != nil {
			return nil, err
		}
		saved = append(saved, f)
		notes.FileURL = f.URL
		notes.OriginalFileName = f.OriginalName
		notes.FileSize = f.Size
		notes.FileType = f.MimeType
	}
	if files.Thumbnail != nil {
		f, err := s.store.Save(files.Thumbnail, storage.Images)
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, f)
		notes.Thumbnail = f.URL
	}
	for _, f := range saved {
		metrics.UploadBytes.Add(float64(f.Size))
	}

	if err := s.db.WithContext(ctx).Create(notes).Error; err != nil {
		cleanup()
		return nil, dbErr(err)
	}

	metrics.RecordSubmission(string(models.KindNotes), string(notes.Status))
	s.log.Info("notes submitted", "notesId", notes.ID, "authorId", principal.ID, "contentType", contentType, "status", notes.Status)
	return notes, nil
}
