// Package session holds the portal-side login state. A browser cookie carries
// only the session ID; the bearer token issued by the engineer service lives
// server-side in the repository, so configuring Postgres makes logins survive
// portal restarts. Token presence is the sole authentication signal; no
// expiry or signature check is performed on the token itself.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CookieName is the browser cookie that carries the session ID.
const CookieName = "d2f_session"

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one partner's login state. A session is created when an OTP is
// sent (pending, no token yet) and promoted once the OTP verifies.
type Session struct {
	ID         string
	Token      string
	Identifier string
	Mode       string
	UpstreamID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Authenticated reports whether the session holds a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Repository persists sessions.
type Repository interface {
	Create(ctx context.Context, sess Session) error
	Find(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, sess Session) error
	Delete(ctx context.Context, id string) error
}

// New builds a pending session for an identifier awaiting OTP verification.
func New(identifier, mode, upstreamID string, ttl time.Duration) Session {
	now := time.Now().UTC()
	return Session{
		ID:         uuid.NewString(),
		Identifier: identifier,
		Mode:       mode,
		UpstreamID: upstreamID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}
