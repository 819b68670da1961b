package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrDuplicateKey reports a violation of the (user, pet) uniqueness
	// constraint. The insert itself is the arbiter; callers must not rely on a
	// prior existence check.
	ErrDuplicateKey = errors.New("application already exists for this user and pet")
	// ErrAlreadyDecided reports that a decision write found the application no
	// longer Pending.
	ErrAlreadyDecided = errors.New("application already decided")
)

// Ledger persists adoption applications. Each operation is a single atomic
// record write; UpdateDecision is conditional on the stored status still being
// Pending so two concurrent decisions cannot both commit.
type Ledger interface {
	InsertUnique(ctx context.Context, app *domain.Application) (*domain.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	UpdateDecision(ctx context.Context, id uuid.UUID, status domain.Status, notes string, decidedAt time.Time) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// ExistsPending reports whether any Pending application other than
	// excluding still targets the pet.
	ExistsPending(ctx context.Context, petID int64, excluding uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Application, error)
	ListAll(ctx context.Context) ([]*domain.Application, error)
	CountApproved(ctx context.Context, petID int64) (int64, error)
}
