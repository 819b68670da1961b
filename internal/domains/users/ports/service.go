package ports

import (
	"context"

	"github.com/pawhaven/adoption-api-server/internal/domains/users/domain"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

// Service exposes identity use cases to adapters. Authenticate is the bridge
// from a bearer token to the principal value the workflow operations consume.
type Service interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	Update(ctx context.Context, username string, updated *domain.User) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, username string)
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}
