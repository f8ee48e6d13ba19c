// Package auth provides login and bearer-token handling. User records and
// password hashes live behind p_list_usuario; the application tier only
// compares hashes and mints tokens.
package auth

import "context"

// User statuses as stored by the procedure layer.
const (
	StatusActive = "D"
)

// User is the credential row returned by the user lookup procedure.
type User struct {
	UserID       int64
	EmployeeID   int64
	EmployeeName string
	Login        string
	PasswordHash string
	UserType     string
	Status       string
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Repository looks up credential rows.
type Repository interface {
	// FindByLogin reports found=false when no such account exists.
	FindByLogin(ctx context.Context, login string) (*User, bool, error)
}

// Credentials is a login attempt.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Session is the successful login result handed back to the client.
type Session struct {
	Token     string `json:"token"`
	UserID    int64  `json:"userId"`
	Login     string `json:"login"`
	UserType  string `json:"userType"`
	FullName  string `json:"fullName,omitempty"`
	ExpiresAt int64  `json:"expiresAt"`
}
