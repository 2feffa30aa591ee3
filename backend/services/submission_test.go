package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"esiksha/backend/apperr"
	"esiksha/backend/models"
	"esiksha/backend/storage"
	"esiksha/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseSubmission() CourseSubmission {
	return CourseSubmission{
		Title:        "Go Basics",
		Description:  "Learn Go from scratch",
		Category:     "programming",
		Level:        "beginner",
		IsFree:       true,
		Tags:         "go, backend,, ",
		ThumbnailURL: "https://img.example.com/go.png",
		Modules:      `[{"title":"Intro","videos":[{"title":"Hello","url":"https://youtu.be/x"}]}]`,
	}
}

func TestSubmitCourseByStudentIsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	course, err := svc.SubmitCourse(context.Background(), principalOf(student), courseSubmission(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, course.Status)
	assert.Nil(t, course.PublishedAt)
	assert.Equal(t, student.ID, course.InstructorID)
	assert.Equal(t, "asha", course.InstructorName)
	assert.Equal(t, []string{"go", "backend"}, []string(course.Tags))
	assert.Equal(t, models.DefaultCourseDuration, course.Duration)
	require.Len(t, course.Modules, 1)
	assert.Equal(t, models.DefaultVideoDuration, course.Modules[0].Videos[0].Duration)
	assert.Zero(t, course.StudentsEnrolled)
	assert.Zero(t, course.RatingCount)
}

func TestSubmitCourseByAdminIsPublished(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	admin := createUser(t, db, "root", models.RoleAdmin)

	course, err := svc.SubmitCourse(context.Background(), principalOf(admin), courseSubmission(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, course.Status)
	require.NotNil(t, course.PublishedAt)
}

func TestSubmitCourseValidationWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	cases := map[string]func(*CourseSubmission){
		"missing title":     func(in *CourseSubmission) { in.Title = "  " },
		"missing thumbnail": func(in *CourseSubmission) { in.ThumbnailURL = "" },
		"bad level":         func(in *CourseSubmission) { in.Level = "expert" },
		"negative price":    func(in *CourseSubmission) { in.IsFree, in.Price = false, -5 },
		"bad modules":       func(in *CourseSubmission) { in.Modules = "{not json" },
		"untitled module":   func(in *CourseSubmission) { in.Modules = `[{"title":""}]` },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := courseSubmission()
			mutate(&in)
			_, err := svc.SubmitCourse(context.Background(), principalOf(student), in, nil)
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
		})
	}

	var count int64
	db.Model(&models.Course{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitCourseWithUploadedThumbnail(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewSubmissionService(db, utils.NopLogger(), store, testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	in := courseSubmission()
	in.ThumbnailURL = ""
	course, err := svc.SubmitCourse(context.Background(), principalOf(student), in, fileHeader(t, "thumbnail", "cover.PNG", pngBytes))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(course.Thumbnail, storage.URLPrefix))
	assert.True(t, strings.HasSuffix(course.Thumbnail, ".png"))
	_, err = os.Stat(filepath.Join(store.Dir(), filepath.Base(course.Thumbnail)))
	assert.NoError(t, err)
}

func TestSubmitCourseRejectsNonImageThumbnail(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewSubmissionService(db, utils.NopLogger(), store, testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	in := courseSubmission()
	in.ThumbnailURL = ""
	_, err := svc.SubmitCourse(context.Background(), principalOf(student), in, fileHeader(t, "thumbnail", "cover.png", pdfBytes))
	assert.True(t, apperr.Is(err, apperr.CodeUpload))

	entries, _ := os.ReadDir(store.Dir())
	assert.Empty(t, entries)
}

func TestSubmitLinkNotesDetectsProvider(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	notes, err := svc.SubmitNotes(context.Background(), principalOf(student), NotesSubmission{
		Title:       "Calculus",
		Category:    "mathematics",
		ContentType: "link",
		ExternalURL: "https://drive.google.com/file/d/abc",
	}, NotesFiles{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, notes.Status)
	assert.Equal(t, models.URLGoogleDrive, notes.URLType)
	assert.Empty(t, notes.FileURL)
	assert.True(t, notes.IsFree)
	assert.Zero(t, notes.Downloads)
}

func TestSubmitLinkNotesKeepsExplicitProvider(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)

	notes, err := svc.SubmitNotes(context.Background(), principalOf(student), NotesSubmission{
		Title:       "Slides",
		Category:    "physics",
		ContentType: "link",
		ExternalURL: "https://example.com/slides",
		URLType:     "dropbox",
	}, NotesFiles{})
	require.NoError(t, err)
	assert.Equal(t, models.URLDropbox, notes.URLType)
}

func TestSubmitFileNotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	instructor := createUser(t, db, "kiran", models.RoleInstructor)

	notes, err := svc.SubmitNotes(context.Background(), principalOf(instructor), NotesSubmission{
		Title:       "Algebra",
		Category:    "mathematics",
		ContentType: "file",
		Tags:        "algebra",
	}, NotesFiles{File: fileHeader(t, "file", "algebra.pdf", pdfBytes)})
	require.NoError(t, err)

	assert.Equal(t, models.ContentFile, notes.ContentType)
	assert.Equal(t, "algebra.pdf", notes.OriginalFileName)
	assert.Equal(t, "application/pdf", notes.FileType)
	assert.Equal(t, int64(len(pdfBytes)), notes.FileSize)
	assert.True(t, strings.HasPrefix(notes.FileURL, storage.URLPrefix))
	assert.Empty(t, notes.ExternalURL)
}

func TestSubmitNotesValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubmissionService(db, utils.NopLogger(), newTestStore(t), testEnforcer(t))
	student := createUser(t, db, "asha", models.RoleStudent)
	ctx := context.Background()

	_, err := svc.SubmitNotes(ctx, principalOf(student), NotesSubmission{Title: "A", Category: "c", ContentType: "file"}, NotesFiles{})
	assert.Equal(t, "File is required for file uploads", apperr.From(err).Message)

	_, err = svc.SubmitNotes(ctx, principalOf(student), NotesSubmission{Title: "A", Category: "c", ContentType: "link"}, NotesFiles{})
	assert.Equal(t, "External URL is required for link submissions", apperr.From(err).Message)

	_, err = svc.SubmitNotes(ctx, principalOf(student), NotesSubmission{Title: "A", Category: "c", ContentType: "link", ExternalURL: "ftp://x"}, NotesFiles{})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.SubmitNotes(ctx, principalOf(student), NotesSubmission{Title: "A", Category: "c", ContentType: "video"}, NotesFiles{})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	var count int64
	db.Model(&models.Notes{}).Count(&count)
	assert.Zero(t, count)
}

func TestParseModules(t *testing.T) {
	modules, err := ParseModules("")
	require.NoError(t, err)
	assert.Empty(t, modules)

	modules, err = ParseModules(`[{"title":" Week 1 "}]`)
	require.NoError(t, err)
	assert.Equal(t, "Week 1", modules[0].Title)
	assert.NotNil(t, modules[0].Videos)

	_, err = ParseModules(`[{"title":"W","videos":[{"title":"","url":"u"}]}]`)
	assert.Equal(t, "Module 1 video 1 needs a title and url", apperr.From(err).Message)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitTags("a, b,,c "))
	assert.Equal(t, []string{}, SplitTags(""))
}
