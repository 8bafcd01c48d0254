package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login. Only the SHA-256 of the cookie token is kept.
type Session struct {
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
