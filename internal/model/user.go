package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// UserProfile is the profile returned by the API on login/register.
// It is created server-side and read-only on the client.
type UserProfile struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	OtherNames   *string    `json:"otherNames,omitempty"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	NRC          string     `json:"nrc"`
	ProfileImage *string    `json:"profileImage,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts the identifier under either "id" or "_id".
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// FullName joins first, other and last names, skipping empty parts.
func (u *UserProfile) FullName() string {
	parts := []string{u.FirstName}
	if u.OtherNames != nil && *u.OtherNames != "" {
		parts = append(parts, *u.OtherNames)
	}
	parts = append(parts, u.LastName)

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	NRC       string `json:"nrc"`
	LastName  string `json:"lastName"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body of a successful login or register call.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

var (
	// ErrNotLoggedIn is returned when an authenticated call is made without a session
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrCorruptSession is returned by stores when the persisted user is not valid JSON
	ErrCorruptSession = errors.New("persisted session is corrupt")

	// ErrIncompleteAuthResponse is returned when the server omits the token or the user
	ErrIncompleteAuthResponse = errors.New("server response is missing token or user")

	// Sandbox API account errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
