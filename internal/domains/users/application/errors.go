package application

import (
	"errors"
	"fmt"

	"github.com/pawhaven/adoption-api-server/internal/domains/users/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps credential failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInvalidToken signals the bearer token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired session token")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidRole) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
