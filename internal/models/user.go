package models

import "time"

// Role values for a user account.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
)

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionUser is the snapshot of a user stored in the session at login.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session returns the reduced view of the user kept in the session store.
func (u User) Session() SessionUser {
	return SessionUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
