package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

var (
	// ErrInvalidPhone is returned when a contact number is not exactly 10
	// digits.
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")
	// ErrFlatNotFound is returned when a flat does not exist or is not
	// owned by the caller.
	ErrFlatNotFound = errors.New("flat not found")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// FlatInput carries the caller-supplied fields of a listing.
type FlatInput struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	LocationLink string  `json:"location_link"`
	Rent         float64 `json:"rent"`
	Facilities   string  `json:"facilities"`
}

// SearchFilter holds the optional tenant-side search criteria. A nil or
// zero field omits its clause entirely.
type SearchFilter struct {
	Location string
	MaxRent  *float64
}

// FlatServiceProvider defines the interface for listing services.
type FlatServiceProvider interface {
	Create(ctx context.Context, landlordID int64, input FlatInput, image io.Reader, imageName string) (models.Flat, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Flat, error)
	ListByLandlord(ctx context.Context, landlordID int64) ([]models.Flat, error)
	Update(ctx context.Context, landlordID, flatID int64, input FlatInput) error
	Delete(ctx context.Context, landlordID, flatID int64) error
}

// FlatService provides business logic for flat listings.
type FlatService struct {
	db      *sql.DB
	uploads *uploads.Store
}

// NewFlatService creates a new FlatService.
func NewFlatService(db *sql.DB, uploadStore *uploads.Store) *FlatService {
	return &FlatService{db: db, uploads: uploadStore}
}

// Create stores the listing image and inserts a flat owned by landlordID.
func (s *FlatService) Create(ctx context.Context, landlordID int64, input FlatInput, image io.Reader, imageName string) (models.Flat, error) {
	if !phonePattern.MatchString(input.Phone) {
		return models.Flat{}, ErrInvalidPhone
	}

	imagePath, err := s.uploads.Save(image, imageName)
	if err != nil {
		return models.Flat{}, fmt.Errorf("failed to store listing image: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO flats (landlord_id, name, phone, address, location_link, rent, facilities, image_path, is_rented)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		landlordID, input.Name, input.Phone, input.Address, input.LocationLink,
		input.Rent, input.Facilities, imagePath)
	if err != nil {
		// The row never landed; the saved image would be orphaned.
		if rmErr := s.uploads.Remove(imagePath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", imagePath).Msg("Could not clean up image after failed insert")
		}
		return models.Flat{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Flat{}, err
	}

	flat := models.Flat{
		ID:           id,
		LandlordID:   landlordID,
		Name:         input.Name,
		Phone:        input.Phone,
		Address:      input.Address,
		LocationLink: input.LocationLink,
		Rent:         input.Rent,
		Facilities:   input.Facilities,
		ImagePath:    imagePath,
		ImageURL:     uploads.URL(imagePath),
	}
	return flat, nil
}

// Search returns all unrented flats matching the filter. Clauses are
// composed with bound parameters only.
func (s *FlatService) Search(ctx context.Context, filter SearchFilter) ([]models.Flat, error) {
	clauses := []string{"is_rented = 0"}
	args := []any{}

	if filter.Location != "" {
		clauses = append(clauses, "address LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.MaxRent != nil {
		clauses = append(clauses, "rent <= ?")
		args = append(args, *filter.MaxRent)
	}

	query := `
		SELECT id, landlord_id, name, phone, address, location_link, rent, facilities, image_path, is_rented
		FROM flats WHERE ` + strings.Join(clauses, " AND ")

	flats, err := s.queryFlats(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for i := range flats {
		flats[i].ImageURL = uploads.URL(flats[i].ImagePath)
		if flats[i].Phone != "" {
			flats[i].Contact = flats[i].Phone
		} else {
			flats[i].Contact = "N/A"
		}
	}
	return flats, nil
}

// ListByLandlord returns every flat owned by landlordID, rented or not.
func (s *FlatService) ListByLandlord(ctx context.Context, landlordID int64) ([]models.Flat, error) {
	flats, err := s.queryFlats(ctx, `
		SELECT id, landlord_id, name, phone, address, location_link, rent, facilities, image_path, is_rented
		FROM flats WHERE landlord_id = ?`, landlordID)
	if err != nil {
		return nil, err
	}

	for i := range flats {
		flats[i].ImageURL = uploads.URL(flats[i].ImagePath)
	}
	return flats, nil
}

// Update overwrites the caller-editable fields of a flat. The WHERE clause
// is scoped to the owner; zero affected rows means the flat does not exist
// or belongs to someone else.
func (s *FlatService) Update(ctx context.Context, landlordID, flatID int64, input FlatInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE flats
		SET name = ?, phone = ?, address = ?, location_link = ?, rent = ?, facilities = ?
		WHERE id = ? AND landlord_id = ?`,
		input.Name, input.Phone, input.Address, input.LocationLink,
		input.Rent, input.Facilities, flatID, landlordID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrFlatNotFound
	}
	return nil
}

// Delete removes a flat owned by landlordID along with its image file.
func (s *FlatService) Delete(ctx context.Context, landlordID, flatID int64) error {
	var imagePath sql.NullString
	row := s.db.QueryRowContext(ctx,
		"SELECT image_path FROM flats WHERE id = ? AND landlord_id = ?", flatID, landlordID)
	if err := row.Scan(&imagePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFlatNotFound
		}
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM flats WHERE id = ? AND landlord_id = ?", flatID, landlordID); err != nil {
		return err
	}

	if imagePath.Valid {
		if err := s.uploads.Remove(imagePath.String); err != nil {
			log.Warn().Err(err).Str("path", imagePath.String).Msg("Could not remove image during flat deletion")
		}
	}
	return nil
}

func (s *FlatService) queryFlats(ctx context.Context, query string, args ...any) ([]models.Flat, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flats := []models.Flat{}
	for rows.Next() {
		var f models.Flat
		var locationLink, facilities, imagePath sql.NullString
		err := rows.Scan(&f.ID, &f.LandlordID, &f.Name, &f.Phone, &f.Address,
			&locationLink, &f.Rent, &facilities, &imagePath, &f.IsRented)
		if err != nil {
			return nil, err
		}
		f.LocationLink = locationLink.String
		f.Facilities = facilities.String
		f.ImagePath = imagePath.String
		flats = append(flats, f)
	}
	return flats, rows.Err()
}
