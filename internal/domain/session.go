package domain

import "time"

// Session is an authenticated caller session, owned by the session
// service and cached by the gateway.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Valid reports whether the session is usable at the given instant.
func (s *Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}
