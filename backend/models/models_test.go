package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectURLType(t *testing.T) {
	cases := map[string]URLType{
		"https://drive.google.com/file/d/abc123/view": URLGoogleDrive,
		"https://docs.google.com/document/d/x":        URLOther,
		"https://onedrive.live.com/redir?id=1":        URLOneDrive,
		"https://contoso.sharepoint.com/s/doc":        URLOneDrive,
		"https://1drv.ms/b/s!abc":                     URLOther,
		"https://www.dropbox.com/s/abc/notes.pdf":     URLDropbox,
		"https://GitHub.com/user/repo":                URLGitHub,
		"https://www.youtube.com/watch?v=1":           URLYouTube,
		"https://youtu.be/1":                          URLYouTube,
		"https://example.com/github.com":              URLOther,
	}
	for raw, want := range cases {
		assert.Equal(t, want, DetectURLType(raw), raw)
	}
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0.0, ClampProgress(-5))
	assert.Equal(t, 42.5, ClampProgress(42.5))
	assert.Equal(t, 100.0, ClampProgress(150))
}

func TestParseRoleAndLevel(t *testing.T) {
	r, ok := ParseRole("")
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, r)
	r, ok = ParseRole(" Instructor")
	assert.True(t, ok)
	assert.Equal(t, RoleInstructor, r)
	_, ok = ParseRole("root")
	assert.False(t, ok)

	l, ok := ParseLevel("")
	assert.True(t, ok)
	assert.Equal(t, LevelAll, l)
	_, ok = ParseLevel("expert")
	assert.False(t, ok)
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("secret1"))
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.com "))
}

func TestHasEnrolled(t *testing.T) {
	id := uuid.New()
	u := &User{EnrolledCourses: []uuid.UUID{id}}
	assert.True(t, u.HasEnrolled(id))
	assert.False(t, u.HasEnrolled(uuid.New()))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 12, Total: 0, Pages: 0}, NewPagination(1, 12, 0))
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, NewPagination(2, 10, 25))
	assert.Equal(t, Pagination{Page: 1, Limit: 5, Total: 10, Pages: 2}, NewPagination(1, 5, 10))
}
