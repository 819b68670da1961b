package application

import "errors"

// Sentinel errors for the adoption workflow. The HTTP boundary translates
// each into a distinct problem response.
var (
	// ErrPetNotFound indicates the submission or decision referenced a pet
	// that does not exist.
	ErrPetNotFound = errors.New("pet not found")

	// ErrApplicationNotFound indicates the referenced application does not exist.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrDuplicateApplication indicates the (user, pet) slot is already taken,
	// whatever the stored application's status.
	ErrDuplicateApplication = errors.New("an application for this pet already exists for this user")

	// ErrConflict indicates the requested transition lost against the current
	// state, e.g. a concurrent approval already adopted the pet.
	ErrConflict = errors.New("application state conflict")

	// ErrForbidden indicates an ownership or role violation. No state was changed.
	ErrForbidden = errors.New("caller may not act on this application")

	// ErrInternalInconsistency indicates a partial multi-write failure: the
	// first record write committed but the second did not. It is not caller
	// recoverable and must be logged for operator remediation.
	ErrInternalInconsistency = errors.New("adoption records are inconsistent")
)
