package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("enroll: %w", NotFound("Course not found"))

	e := From(wrapped)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "Course not found", e.Message)
	assert.True(t, Is(wrapped, CodeNotFound))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")

	e := From(cause)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, CodeInternal, e.Code)
	assert.ErrorIs(t, e, cause)
	assert.Nil(t, From(nil))
}

func TestConflictIsBadRequest(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Conflict("dup").Status)
	assert.Equal(t, http.StatusBadRequest, Upload("too big").Status)
}
