package models

import "time"

// Session is one signed-in device. Token is the opaque refresh secret and never leaves the login response.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Token        string     `json:"-"`
	UserAgent    string     `json:"user_agent"`
	Device       string     `json:"device"`
	IP           string     `json:"ip,omitempty"`
	CreatedAt    time.Time  `json:"login_time"`
	LastActiveAt time.Time  `json:"last_active"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	Current      bool       `json:"current"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
