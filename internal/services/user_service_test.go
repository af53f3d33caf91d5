package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	ctx := context.Background()

	created, err := users.Register(ctx, "ravi", "ravi@example.com", "secret123", models.RoleLandlord)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.RoleLandlord, created.Role)

	got, err := users.Authenticate(ctx, "ravi", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.RoleLandlord, got.Role)
	assert.Empty(t, got.PasswordHash, "hash must never leave the service")
}

func TestRegisterDefaultsToTenant(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)

	created, err := users.Register(context.Background(), "mira", "mira@example.com", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTenant, created.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)

	_, err := users.Register(context.Background(), "eve", "eve@example.com", "pw", "admin")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	ctx := context.Background()

	_, err := users.Register(ctx, "sam", "sam@example.com", "pw", "")
	require.NoError(t, err)

	_, err = users.Register(ctx, "sam", "other@example.com", "pw", "")
	assert.Error(t, err)
}

func TestAuthenticateFailures(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	ctx := context.Background()

	_, err := users.Register(ctx, "ravi", "ravi@example.com", "secret123", "")
	require.NoError(t, err)

	// Wrong password and unknown username fail identically.
	_, err = users.Authenticate(ctx, "ravi", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccountCascades(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord, err := users.Register(ctx, "nina", "nina@example.com", "pw", models.RoleLandlord)
	require.NoError(t, err)

	input := FlatInput{Name: "2BHK", Phone: "9876543210", Address: "MG Road", Rent: 12000}
	first, err := flats.Create(ctx, landlord.ID, input, strings.NewReader("img-1"), "one.png")
	require.NoError(t, err)
	second, err := flats.Create(ctx, landlord.ID, input, strings.NewReader("img-2"), "two.png")
	require.NoError(t, err)

	require.NoError(t, users.DeleteAccount(ctx, landlord.Session()))

	// User, flats and image files are all gone.
	_, err = users.Authenticate(ctx, "nina", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	remaining, err := flats.ListByLandlord(ctx, landlord.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	for _, path := range []string{first.ImagePath, second.ImagePath} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "image %s should be removed", path)
	}
}

func TestDeleteAccountToleratesMissingImage(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord, err := users.Register(ctx, "omar", "omar@example.com", "pw", models.RoleLandlord)
	require.NoError(t, err)

	input := FlatInput{Name: "1RK", Phone: "9876543210", Address: "Baner", Rent: 8000}
	flat, err := flats.Create(ctx, landlord.ID, input, strings.NewReader("img"), "a.png")
	require.NoError(t, err)

	// Image vanished out of band; deletion must still succeed.
	require.NoError(t, os.Remove(flat.ImagePath))
	assert.NoError(t, users.DeleteAccount(ctx, landlord.Session()))
}
