package entity

import "time"

// User holds the identity fields returned by the backend on login and
// token verification.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns the name shown in the UI: the first name when
// present, the username otherwise.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Session is the authenticated identity and credential held by the client.
// A non-nil Session always carries a non-empty token.
type Session struct {
	User   User
	Token  string
	Expiry time.Time // zero when the backend does not report one
}

// Expired reports whether the session carries an expiry in the past.
// Sessions without a reported expiry never expire locally; the backend
// remains authoritative via token verification.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && now.After(s.Expiry)
}
