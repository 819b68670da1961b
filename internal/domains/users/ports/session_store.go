package ports

import (
	"context"
	"errors"
)

// ErrTokenNotFound signals the token is unknown or expired.
var ErrTokenNotFound = errors.New("session token not found")

// SessionStore abstracts session/token persistence. Resolve turns a bearer
// token back into the username it was issued for.
type SessionStore interface {
	Save(ctx context.Context, username, token string) error
	Resolve(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, username string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ string) error { return nil }
func (noopSessionStore) Resolve(_ context.Context, _ string) (string, error) {
	return "", ErrTokenNotFound
}
func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }
