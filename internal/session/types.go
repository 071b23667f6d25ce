// Package session holds the authenticated user, token and role, persisted in
// SQLite so the session survives restarts.
package session

import "github.com/caremate-dev/caremate/internal/api"

// Role values the client distinguishes. Anything other than caregiver is
// treated as a care recipient for gating purposes.
const (
	RoleClient    = "client"
	RoleCaregiver = "caregiver"
)

// User is the profile record returned by the auth endpoints.
type User struct {
	ID       api.ID `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	UserType string `json:"user_type"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// authResponse is the shape of login/register responses.
type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}
