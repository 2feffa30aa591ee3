package services

import (
	"context"
	"strings"
	"testing"

	"esiksha/backend/apperr"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReviewRecomputesRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, utils.NopLogger())
	instructor := createUser(t, db, "kiran", models.RoleInstructor)
	course := createCourse(t, db, instructor, "Go", models.StatusPublished)
	ctx := context.Background()

	first := createUser(t, db, "asha", models.RoleStudent)
	second := createUser(t, db, "ravi", models.RoleStudent)

	review, err := svc.AddReview(ctx, principalOf(first), ReviewInput{CourseID: course.ID.String(), Rating: 4, Comment: " Great "})
	require.NoError(t, err)
	assert.Equal(t, "Great", review.Comment)
	assert.Equal(t, "asha", review.UserName)
	assert.Equal(t, models.KindCourse, review.Target.Kind)

	_, err = svc.AddReview(ctx, principalOf(second), ReviewInput{CourseID: course.ID.String(), Rating: 2})
	require.NoError(t, err)

	var stored models.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.InDelta(t, 3.0, stored.Rating, 1e-9)
	assert.Equal(t, int64(2), stored.RatingCount)
}

func TestAddReviewOnNotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, utils.NopLogger())
	author := createUser(t, db, "kiran", models.RoleInstructor)
	reader := createUser(t, db, "asha", models.RoleStudent)
	notes := createLinkNotes(t, db, author, "Calc", models.StatusPublished)

	_, err := svc.AddReview(context.Background(), principalOf(reader), ReviewInput{NotesID: notes.ID.String(), Rating: 5})
	require.NoError(t, err)

	var stored models.Notes
	require.NoError(t, db.First(&stored, "id = ?", notes.ID).Error)
	assert.InDelta(t, 5.0, stored.Rating, 1e-9)
	assert.Equal(t, int64(1), stored.RatingCount)
}

func TestAddReviewDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, utils.NopLogger())
	instructor := createUser(t, db, "kiran", models.RoleInstructor)
	student := createUser(t, db, "asha", models.RoleStudent)
	course := createCourse(t, db, instructor, "Go", models.StatusPublished)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, principalOf(student), ReviewInput{CourseID: course.ID.String(), Rating: 5})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, principalOf(student), ReviewInput{CourseID: course.ID.String(), Rating: 1})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Equal(t, "You have already reviewed this content", apperr.From(err).Message)

	var stored models.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	assert.InDelta(t, 5.0, stored.Rating, 1e-9)
	assert.Equal(t, int64(1), stored.RatingCount)
}

func TestAddReviewValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, utils.NopLogger())
	instructor := createUser(t, db, "kiran", models.RoleInstructor)
	student := createUser(t, db, "asha", models.RoleStudent)
	course := createCourse(t, db, instructor, "Go", models.StatusPublished)
	notes := createLinkNotes(t, db, instructor, "Calc", models.StatusPublished)
	ctx := context.Background()
	p := principalOf(student)

	cases := map[string]ReviewInput{
		"no target":    {Rating: 3},
		"both targets": {CourseID: course.ID.String(), NotesID: notes.ID.String(), Rating: 3},
		"rating zero":  {CourseID: course.ID.String(), Rating: 0},
		"rating six":   {CourseID: course.ID.String(), Rating: 6},
		"long comment": {CourseID: course.ID.String(), Rating: 3, Comment: strings.Repeat("x", models.MaxCommentLength+1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddReview(ctx, p, in)
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
		})
	}

	missing := uuid.New()
	_, err := svc.AddReview(ctx, p, ReviewInput{CourseID: missing.String(), Rating: 3})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.AddReview(ctx, p, ReviewInput{CourseID: "not-a-uuid", Rating: 3})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	_, err = svc.AddReview(ctx, p, ReviewInput{NotesID: "42", Rating: 3})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.Zero(t, count)
}
