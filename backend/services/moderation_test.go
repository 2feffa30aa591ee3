package services

import (
	"context"
	"testing"
	"time"

	"esiksha/backend/apperr"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModeration(t *testing.T, now time.Time) (*moderationService, *models.User) {
	db := newTestDB(t)
	svc := NewModerationService(db, utils.NopLogger()).(*moderationService)
	svc.now = func() time.Time { return now }
	return svc, createUser(t, db, "kiran", models.RoleInstructor)
}

func TestModerateApproveCourse(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, author := newModeration(t, now)
	course := createCourse(t, svc.db, author, "Go", models.StatusPending)

	decision, err := svc.Moderate(context.Background(), "course", "approve", course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, decision.Status)
	assert.Equal(t, "Go", decision.Title)
	require.NotNil(t, decision.PublishedAt)
	assert.True(t, now.Equal(*decision.PublishedAt))

	var stored models.Course
	require.NoError(t, svc.db.First(&stored, "id = ?", course.ID).Error)
	assert.Equal(t, models.StatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)
}

func TestModerateRejectNotesWithReason(t *testing.T) {
	svc, author := newModeration(t, time.Now().UTC())
	notes := createLinkNotes(t, svc.db, author, "Calc", models.StatusPending)

	decision, err := svc.Moderate(context.Background(), "notes", "reject", notes.ID, "Low quality")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decision.Status)
	require.NotNil(t, decision.RejectionReason)
	assert.Equal(t, "Low quality", *decision.RejectionReason)
	assert.Nil(t, decision.PublishedAt)
}

func TestModerateKeepsHistoryAcrossDecisions(t *testing.T) {
	svc, author := newModeration(t, time.Now().UTC())
	course := createCourse(t, svc.db, author, "Go", models.StatusPending)
	ctx := context.Background()

	_, err := svc.Moderate(ctx, "course", "reject", course.ID, "Needs work")
	require.NoError(t, err)
	approved, err := svc.Moderate(ctx, "course", "approve", course.ID, "")
	require.NoError(t, err)
	require.NotNil(t, approved.RejectionReason)
	assert.Equal(t, "Needs work", *approved.RejectionReason)

	rejected, err := svc.Moderate(ctx, "course", "reject", course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.NotNil(t, rejected.PublishedAt)
}

func TestModerateRejectsBadInput(t *testing.T) {
	svc, author := newModeration(t, time.Now().UTC())
	course := createCourse(t, svc.db, author, "Go", models.StatusPending)
	ctx := context.Background()

	_, err := svc.Moderate(ctx, "course", "delete", course.ID, "")
	assert.Equal(t, "Invalid action. Use approve or reject", apperr.From(err).Message)

	_, err = svc.Moderate(ctx, "video", "approve", course.ID, "")
	assert.Equal(t, "Invalid content type. Use course or notes", apperr.From(err).Message)

	_, err = svc.Moderate(ctx, "course", "approve", uuid.New(), "")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Moderate(ctx, "notes", "approve", course.ID, "")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	var stored models.Course
	require.NoError(t, svc.db.First(&stored, "id = ?", course.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestListPending(t *testing.T) {
	svc, author := newModeration(t, time.Now().UTC())
	older := createCourse(t, svc.db, author, "Older", models.StatusPending)
	newer := createCourse(t, svc.db, author, "Newer", models.StatusPending)
	require.NoError(t, svc.db.Model(older).UpdateColumn("created_at", time.Now().UTC().Add(-time.Hour)).Error)
	createCourse(t, svc.db, author, "Live", models.StatusPublished)
	createLinkNotes(t, svc.db, author, "Calc", models.StatusPending)
	createLinkNotes(t, svc.db, author, "Old", models.StatusRejected)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)

	require.Len(t, pending.Courses, 2)
	assert.Equal(t, newer.ID, pending.Courses[0].ID)
	require.NotNil(t, pending.Courses[0].Instructor)
	assert.Equal(t, author.Email, pending.Courses[0].Instructor.Email)
	require.Len(t, pending.Notes, 1)
	assert.Equal(t, "kiran", pending.Notes[0].Author.FullName)
	assert.Equal(t, models.PendingCounts{Courses: 2, Notes: 1, Total: 3}, pending.Counts)
}
