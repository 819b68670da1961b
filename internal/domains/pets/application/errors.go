package application

import (
	"errors"
	"fmt"

	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid pet input")

// ErrForbidden signals the caller lacks the administrator capability.
var ErrForbidden = errors.New("pet catalog changes require an administrator")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptySpecies) ||
		errors.Is(err, domain.ErrEmptyPhotos) ||
		errors.Is(err, domain.ErrInvalidAge) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
