package ports

import (
	"context"

	types "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
)

// Service exposes the pets bounded context use cases.
type Service interface {
	AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error)
	UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error)
	GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error)
	Delete(ctx context.Context, input types.DeletePetInput) error
	FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error)
	List(ctx context.Context) ([]*types.PetProjection, error)
	ChangeAvailability(ctx context.Context, input types.ChangeAvailabilityInput) (*types.PetProjection, error)
}
