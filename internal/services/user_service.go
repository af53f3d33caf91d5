package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

// ErrInvalidCredentials is returned for any failed login, whether the
// username exists or not.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password, role string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	DeleteAccount(ctx context.Context, user models.SessionUser) error
}

// UserService provides business logic for user accounts.
type UserService struct {
	db      *sql.DB
	uploads *uploads.Store
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, uploadStore *uploads.Store) *UserService {
	return &UserService{db: db, uploads: uploadStore}
}

// Register creates a new user, hashing their password. Role defaults to
// tenant.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("username and password are required")
	}

	switch role {
	case "":
		role = models.RoleTenant
	case models.RoleTenant, models.RoleLandlord:
	default:
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(username, email, password_hash, role) VALUES(?, ?, ?, ?)",
		username, email, string(hashedPassword), role)
	if err != nil {
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Username: username, Email: email, Role: role}, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, role FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// DeleteAccount removes the user and, for landlords, all their flats. Row
// deletions happen in one transaction; image files are removed after the
// commit, tolerating files that are already gone.
func (s *UserService) DeleteAccount(ctx context.Context, user models.SessionUser) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var imagePaths []string
	if user.Role == models.RoleLandlord {
		rows, err := tx.QueryContext(ctx, "SELECT image_path FROM flats WHERE landlord_id = ?", user.ID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var path sql.NullString
			if err := rows.Scan(&path); err != nil {
				rows.Close()
				return err
			}
			if path.Valid {
				imagePaths = append(imagePaths, path.String)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if _, err := tx.ExecContext(ctx, "DELETE FROM flats WHERE landlord_id = ?", user.ID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, path := range imagePaths {
		if err := s.uploads.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not remove image during account deletion")
		}
	}
	return nil
}
