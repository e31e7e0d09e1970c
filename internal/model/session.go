package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session pairs a bearer token with the profile it authenticates.
// Token and User are set and cleared together; the zero value means logged out.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// IsLoggedIn mirrors the app's routing rule: both a user and a token must be present.
func (s Session) IsLoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// ExpiresAt reads the exp claim when the token is a JWT. The signature is not
// checked; the server stays authoritative. ok is false for opaque tokens.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
