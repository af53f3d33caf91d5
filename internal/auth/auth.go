package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
	"github.com/Vaishnavigophane/NestAway-backend/internal/session"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

type contextKey string

const userContextKey = contextKey("sessionUser")

// Claims defines the JWT claims structure. The token carries only the
// session ID; the session store holds the user snapshot, so deleting the
// session invalidates the token immediately.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues, validates and revokes cookie sessions.
type Manager struct {
	store  session.Store
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session Manager backed by the given store.
func NewManager(store session.Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// Issue stores the user snapshot under a fresh session ID and sets the
// session cookie on the response.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, user models.SessionUser) error {
	id := uuid.New().String()
	if err := m.store.Put(ctx, id, user); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	expirationTime := time.Now().Add(m.ttl)
	claims := &Claims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Expires:  expirationTime,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Clear deletes the request's session from the store, if any, and expires
// the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if claims, err := m.claimsFromRequest(r); err == nil {
		_ = m.store.Delete(ctx, claims.SessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

func (m *Manager) claimsFromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserFromRequest resolves the request's session to the stored user snapshot.
func (m *Manager) UserFromRequest(r *http.Request) (models.SessionUser, error) {
	claims, err := m.claimsFromRequest(r)
	if err != nil {
		return models.SessionUser{}, err
	}
	return m.store.Get(r.Context(), claims.SessionID)
}

// Middleware protects routes which require an active session.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.UserFromRequest(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the session user placed in the context by Middleware.
func UserFrom(ctx context.Context) (models.SessionUser, bool) {
	user, ok := ctx.Value(userContextKey).(models.SessionUser)
	return user, ok
}
