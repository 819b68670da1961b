package ports

import (
	"context"
	"errors"
	"time"

	types "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
)

var (
	ErrNotFound = errors.New("pet not found")
	// ErrStatusConflict reports a conditional status write whose expectation no
	// longer matches the stored state.
	ErrStatusConflict = errors.New("pet status conflict")
)

// Repository persists pets. Save touches catalog fields only; the workflow
// fields (status, adopted_by, adoption_date) move exclusively through the
// conditional operations below, each of which is a single atomic record write.
type Repository interface {
	Save(ctx context.Context, pet *domain.Pet) (*types.PetProjection, error)
	GetByID(ctx context.Context, id int64) (*types.PetProjection, error)
	Delete(ctx context.Context, id int64) error
	FindByStatus(ctx context.Context, statuses []domain.Status) ([]*types.PetProjection, error)
	List(ctx context.Context) ([]*types.PetProjection, error)

	// CompareAndSetStatus updates status to next only if the stored status
	// equals expected, returning ErrStatusConflict on mismatch.
	CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.Status) error
	// MarkAdopted commits the terminal adopted state, guarded by the stored
	// status not already being adopted.
	MarkAdopted(ctx context.Context, id int64, adopterID int64, at time.Time) error
	// ClearAdoption is the operator remediation escape hatch: it reverts an
	// adopted pet to available and clears the adoption fields.
	ClearAdoption(ctx context.Context, id int64) error
}
