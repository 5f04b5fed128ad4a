package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func TestCreateUser_CreatesProfile(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t)

	assert.Equal(t, "Student", p.Name)
	assert.Equal(t, "student@example.com", p.Email)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.XP)
	assert.Nil(t, p.LastActivityDate)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.users.CreateUser(context.Background(), &models.CreateUserRequest{
		Email: "Student@Example.com ", Password: "secret123", Name: "Other",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.AuthenticateUser(ctx, &models.LoginRequest{Email: "student@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, env.userID, u.ID)
	assert.NotNil(t, u.LastLoginAt)

	_, err = env.users.AuthenticateUser(ctx, &models.LoginRequest{Email: "student@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.users.AuthenticateUser(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.users.UpdateProfile(ctx, env.userID, &models.ProfileUpdateRequest{
		Name: "  Ploy ", AvatarURL: "https://example.com/a.png", ClassLevel: "M.4",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ploy", p.Name)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, "https://example.com/a.png", *p.AvatarURL)
	require.NotNil(t, p.ClassLevel)
	assert.Equal(t, "M.4", *p.ClassLevel)

	_, err = env.users.UpdateProfile(ctx, "missing", &models.ProfileUpdateRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
