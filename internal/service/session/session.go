// Package session keeps server-side admin login state keyed by an opaque token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Session is the state recorded at admin login.
type Session struct {
	Token     string    `json:"token"`
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	AdminDBID int64     `json:"admin_db_id"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions until they expire or are deleted.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken mints a fresh opaque session token.
func NewToken() string {
	return uuid.NewString()
}
