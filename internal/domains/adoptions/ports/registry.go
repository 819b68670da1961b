package ports

import (
	"context"
	"time"

	pettypes "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	petsdomain "github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
)

// PetRegistry is the coordinator's view of the pets bounded context: a point
// lookup plus the conditional single-record status writes the workflow needs.
// Any pets repository satisfies it.
type PetRegistry interface {
	GetByID(ctx context.Context, id int64) (*pettypes.PetProjection, error)
	CompareAndSetStatus(ctx context.Context, id int64, expected, next petsdomain.Status) error
	MarkAdopted(ctx context.Context, id int64, adopterID int64, at time.Time) error
}
