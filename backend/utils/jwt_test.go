package utils

import (
	"testing"
	"time"

	"esiksha/backend/config"
	"esiksha/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.JWTSecret = "testsecret"
	return &cfg
}

func TestGenerateAndParseJWTToken(t *testing.T) {
	cfg := testConfig()
	user := &models.User{FullName: "Asha Rai", Email: "asha@example.com", Role: models.RoleInstructor}
	user.ID = uuid.New()

	token, err := GenerateJWTToken(user, cfg)
	require.NoError(t, err)

	principal, err := ParseJWTToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, "asha@example.com", principal.Email)
	assert.Equal(t, models.RoleInstructor, principal.Role)
	assert.Equal(t, "Asha Rai", principal.FullName)
}

func TestParseJWTTokenRejectsTamperedOrExpired(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Email: "x@example.com", Role: models.RoleStudent}
	user.ID = uuid.New()

	token, err := GenerateJWTToken(user, cfg)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "another"
	_, err = ParseJWTToken(token, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := testConfig()
	expired.JWTTTL = -time.Minute
	token, err = GenerateJWTToken(user, expired)
	require.NoError(t, err)
	_, err = ParseJWTToken(token, cfg)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = BearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "Bearer ", "Token abc", "abc"} {
		_, err := BearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}
}
