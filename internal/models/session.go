package models

import "time"

// User is the identity part of a hosted auth session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session mirrors the token bundle issued by the hosted auth service.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

// expiryMargin refreshes slightly early so a token never expires mid-request.
const expiryMargin = 10 * time.Second

// Expired reports whether the access token should be refreshed before use.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return !now.Add(expiryMargin).Before(time.Unix(s.ExpiresAt, 0))
}

// Expiry returns the access token expiry, or the zero time when unknown.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}
