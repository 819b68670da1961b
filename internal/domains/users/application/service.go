package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/pawhaven/adoption-api-server/internal/domains/users/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

// Service exposes identity use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions}
}

func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Delete(ctx context.Context, username string) error {
	_ = s.sessions.Delete(ctx, username)
	return s.repo.Delete(ctx, username)
}

func (s *Service) Update(ctx context.Context, username string, updated *domain.User) (*domain.User, error) {
	if updated == nil {
		return nil, errors.New("user is nil")
	}
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	if updated.PasswordHash == "" {
		updated.PasswordHash = existing.PasswordHash
	}
	if updated.Role == "" {
		updated.Role = existing.Role
	}
	if err := updated.SetUsername(username); err != nil {
		return nil, mapError(err)
	}
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, updated)
}

// Login verifies credentials and issues an opaque session token. Lookup
// failures and password mismatches report the same error so the endpoint does
// not reveal which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if !user.CheckPassword(password) {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Save(ctx, user.Username, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) Logout(ctx context.Context, username string) {
	if strings.TrimSpace(username) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, username)
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Principal{}, ErrInvalidToken
	}
	username, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrTokenNotFound) {
			return auth.Principal{}, ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return auth.Principal{}, ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	return user.Principal(), nil
}

func newSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

var _ ports.Service = (*Service)(nil)
