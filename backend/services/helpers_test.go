package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"esiksha/backend/authz"
	"esiksha/backend/config"
	"esiksha/backend/models"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.JWTSecret = "testsecret"
	return &cfg
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.InitDB(testConfig())
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	t.Cleanup(func() { _ = utils.CloseDB(db) })
	return db
}

func newTestStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return store
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		FullName:        name,
		Email:           models.NormalizeEmail(name + "@example.com"),
		Role:            role,
		IsActive:        true,
		Skills:          datatypes.JSONSlice[string]{},
		EnrolledCourses: datatypes.JSONSlice[uuid.UUID]{},
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func principalOf(u *models.User) *models.Principal {
	return &models.Principal{ID: u.ID, Email: u.Email, Role: u.Role, FullName: u.FullName}
}

func createCourse(t *testing.T, db *gorm.DB, instructor *models.User, title string, status models.ModerationStatus) *models.Course {
	t.Helper()
	course := &models.Course{
		Moderation:     models.Moderation{Status: status},
		Title:          title,
		Description:    "About " + title,
		Thumbnail:      "https://img.example.com/" + title + ".png",
		Category:       "programming",
		Level:          models.LevelBeginner,
		Duration:       models.DefaultCourseDuration,
		Tags:           datatypes.JSONSlice[string]{"go"},
		InstructorID:   instructor.ID,
		InstructorName: instructor.FullName,
		IsFree:         true,
		Modules:        datatypes.JSONSlice[models.CourseModule]{},
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createLinkNotes(t *testing.T, db *gorm.DB, author *models.User, title string, status models.ModerationStatus) *models.Notes {
	t.Helper()
	notes := &models.Notes{
		Moderation:  models.Moderation{Status: status},
		Title:       title,
		Category:    "mathematics",
		Tags:        datatypes.JSONSlice[string]{},
		AuthorID:    author.ID,
		AuthorName:  author.FullName,
		ContentType: models.ContentLink,
		ExternalURL: "https://github.com/example/" + title,
		URLType:     models.URLGitHub,
		IsFree:      true,
	}
	require.NoError(t, db.Create(notes).Error)
	return notes
}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func testEnforcer(t *testing.T) *authz.Enforcer {
	t.Helper()
	e, err := authz.NewEnforcer()
	require.NoError(t, err)
	return e
}
