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

func registerLandlord(t *testing.T, users *UserService, username string) models.User {
	t.Helper()
	user, err := users.Register(context.Background(), username, username+"@example.com", "pw", models.RoleLandlord)
	require.NoError(t, err)
	return user
}

func TestCreateValidatesPhone(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord := registerLandlord(t, users, "lena")

	for _, phone := range []string{"12345", "12345678901", "12345abcde", "", "123 456 78"} {
		input := FlatInput{Name: "Flat", Phone: phone, Address: "Somewhere", Rent: 1000}
		_, err := flats.Create(ctx, landlord.ID, input, strings.NewReader("img"), "a.png")
		assert.ErrorIs(t, err, ErrInvalidPhone, "phone %q", phone)
	}

	// Nothing was inserted and no files were left behind
	all, err := flats.ListByLandlord(ctx, landlord.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateStoresImageAndReturnsID(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord := registerLandlord(t, users, "lena")

	input := FlatInput{
		Name:         "Sunny 2BHK",
		Phone:        "9876543210",
		Address:      "12 MG Road, Pune",
		LocationLink: "https://maps.example.com/x",
		Rent:         15000,
		Facilities:   "wifi, parking",
	}
	flat, err := flats.Create(ctx, landlord.ID, input, strings.NewReader("img-bytes"), "front.jpg")
	require.NoError(t, err)

	assert.NotZero(t, flat.ID)
	assert.Equal(t, landlord.ID, flat.LandlordID)
	assert.False(t, flat.IsRented)
	require.NotNil(t, flat.ImageURL)
	assert.True(t, strings.HasPrefix(*flat.ImageURL, "/static/uploads/"))

	data, err := os.ReadFile(flat.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, "img-bytes", string(data))
}

func TestSearchFilters(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord := registerLandlord(t, users, "lena")

	seed := []FlatInput{
		{Name: "Cheap Kothrud", Phone: "1111111111", Address: "Kothrud, Pune", Rent: 800},
		{Name: "Mid Kothrud", Phone: "2222222222", Address: "Kothrud Depot", Rent: 1000},
		{Name: "Posh Baner", Phone: "3333333333", Address: "Baner, Pune", Rent: 2500},
	}
	for _, in := range seed {
		_, err := flats.Create(ctx, landlord.ID, in, strings.NewReader("img"), "a.png")
		require.NoError(t, err)
	}

	// A rented flat never shows up
	_, err := db.ExecContext(ctx, `
		INSERT INTO flats (landlord_id, name, phone, address, location_link, rent, facilities, image_path, is_rented)
		VALUES (?, 'Taken', '4444444444', 'Kothrud, Pune', '', 500, '', '', 1)`, landlord.ID)
	require.NoError(t, err)

	maxRent := func(v float64) *float64 { return &v }

	cases := []struct {
		name   string
		filter SearchFilter
		want   []string
	}{
		{"no filters returns all unrented", SearchFilter{}, []string{"Cheap Kothrud", "Mid Kothrud", "Posh Baner"}},
		{"max rent bound", SearchFilter{MaxRent: maxRent(1000)}, []string{"Cheap Kothrud", "Mid Kothrud"}},
		{"location substring", SearchFilter{Location: "Kothrud"}, []string{"Cheap Kothrud", "Mid Kothrud"}},
		{"filters compose conjunctively", SearchFilter{Location: "Kothrud", MaxRent: maxRent(900)}, []string{"Cheap Kothrud"}},
		{"no match", SearchFilter{Location: "Mumbai"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := flats.Search(ctx, tc.filter)
			require.NoError(t, err)

			names := []string{}
			for _, f := range got {
				names = append(names, f.Name)
				if tc.filter.MaxRent != nil {
					assert.LessOrEqual(t, f.Rent, *tc.filter.MaxRent)
				}
				if tc.filter.Location != "" {
					assert.Contains(t, f.Address, tc.filter.Location)
				}
			}
			assert.ElementsMatch(t, tc.want, names)
		})
	}
}

func TestSearchAnnotations(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	landlord := registerLandlord(t, users, "lena")

	// Row without phone or image, inserted directly
	_, err := db.ExecContext(ctx, `
		INSERT INTO flats (landlord_id, name, phone, address, location_link, rent, facilities, image_path, is_rented)
		VALUES (?, 'Bare', '', 'Nowhere', '', 700, '', '', 0)`, landlord.ID)
	require.NoError(t, err)

	got, err := flats.Search(ctx, SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].ImageURL)
	assert.Equal(t, "N/A", got[0].Contact)
}

func TestUpdateScopedToOwner(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	owner := registerLandlord(t, users, "owner")
	other := registerLandlord(t, users, "other")

	input := FlatInput{Name: "Original", Phone: "9876543210", Address: "MG Road", Rent: 1000}
	flat, err := flats.Create(ctx, owner.ID, input, strings.NewReader("img"), "a.png")
	require.NoError(t, err)

	// Someone else's update must not touch the row
	input.Name = "Hijacked"
	err = flats.Update(ctx, other.ID, flat.ID, input)
	assert.ErrorIs(t, err, ErrFlatNotFound)

	mine, err := flats.ListByLandlord(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Original", mine[0].Name)

	// The owner's update lands
	input.Name = "Renamed"
	input.Rent = 1200
	require.NoError(t, flats.Update(ctx, owner.ID, flat.ID, input))

	mine, err = flats.ListByLandlord(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Renamed", mine[0].Name)
	assert.Equal(t, 1200.0, mine[0].Rent)
}

func TestUpdateUnknownFlat(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)

	owner := registerLandlord(t, users, "owner")

	err := flats.Update(context.Background(), owner.ID, 999, FlatInput{Name: "x", Phone: "9876543210"})
	assert.ErrorIs(t, err, ErrFlatNotFound)
}

func TestDeleteScopedToOwner(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	owner := registerLandlord(t, users, "owner")
	other := registerLandlord(t, users, "other")

	input := FlatInput{Name: "Flat", Phone: "9876543210", Address: "MG Road", Rent: 1000}
	flat, err := flats.Create(ctx, owner.ID, input, strings.NewReader("img"), "a.png")
	require.NoError(t, err)

	// Not the owner: not found, row and file intact
	err = flats.Delete(ctx, other.ID, flat.ID)
	assert.ErrorIs(t, err, ErrFlatNotFound)
	_, err = os.Stat(flat.ImagePath)
	assert.NoError(t, err)

	// Owner: row and file removed
	require.NoError(t, flats.Delete(ctx, owner.ID, flat.ID))

	mine, err := flats.ListByLandlord(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	_, err = os.Stat(flat.ImagePath)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteToleratesMissingImage(t *testing.T) {
	db, uploadStore := newTestEnv(t)
	users := NewUserService(db, uploadStore)
	flats := NewFlatService(db, uploadStore)
	ctx := context.Background()

	owner := registerLandlord(t, users, "owner")

	input := FlatInput{Name: "Flat", Phone: "9876543210", Address: "MG Road", Rent: 1000}
	flat, err := flats.Create(ctx, owner.ID, input, strings.NewReader("img"), "a.png")
	require.NoError(t, err)

	require.NoError(t, os.Remove(flat.ImagePath))
	assert.NoError(t, flats.Delete(ctx, owner.ID, flat.ID))
}
