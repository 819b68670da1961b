package application

import (
	"context"

	types "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

// Service orchestrates the pets bounded context use cases. Catalog mutations
// are administrator-only; availability state is guarded so the adoption
// workflow remains the single writer of pending/adopted transitions.
type Service struct {
	repo ports.Repository
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddPet persists a new pet aggregate.
func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	pet, err := buildPetFromMutation(input.PetMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePet applies a partial catalog mutation to an existing pet.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyPartialMutation(projection.Pet, input.PetMutationInput); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, projection.Pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByID loads a single pet aggregate.
func (s *Service) GetByID(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// Delete removes a pet from the catalog.
func (s *Service) Delete(ctx context.Context, input types.DeletePetInput) error {
	if !input.Principal.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, input.ID); err != nil {
		return mapError(err)
	}
	return nil
}

// FindByStatus searches pets matching any of the provided statuses.
func (s *Service) FindByStatus(ctx context.Context, input types.FindPetsByStatusInput) ([]*types.PetProjection, error) {
	statuses := make([]domain.Status, 0, len(input.Statuses))
	for _, status := range input.Statuses {
		statuses = append(statuses, domain.Status(status))
	}
	if len(statuses) == 0 {
		statuses = []domain.Status{domain.StatusAvailable}
	}
	result, err := s.repo.FindByStatus(ctx, statuses)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// List exposes all pets for admin use cases.
func (s *Service) List(ctx context.Context) ([]*types.PetProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// ChangeAvailability moves a pet between administrative catalog states. The
// transition is committed with a compare-and-set on the status the caller
// observed, so a concurrent adoption decision cannot be overwritten.
func (s *Service) ChangeAvailability(ctx context.Context, input types.ChangeAvailabilityInput) (*types.PetProjection, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	observed := projection.Pet.Status
	if err := projection.Pet.ChangeAvailability(domain.Status(input.Status)); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.CompareAndSetStatus(ctx, input.ID, observed, projection.Pet.Status); err != nil {
		return nil, mapError(err)
	}
	return s.repo.GetByID(ctx, input.ID)
}

func buildPetFromMutation(input types.PetMutationInput) (*domain.Pet, error) {
	if input.Name == nil {
		return nil, domain.ErrEmptyName
	}
	if input.Species == nil {
		return nil, domain.ErrEmptySpecies
	}
	if input.PhotoURLs == nil {
		return nil, domain.ErrEmptyPhotos
	}
	photos := append([]string{}, (*input.PhotoURLs)...)
	pet, err := domain.NewPet(input.ID, *input.Name, *input.Species, photos)
	if err != nil {
		return nil, err
	}
	partial := input
	partial.Name = nil
	partial.Species = nil
	partial.PhotoURLs = nil
	if err := applyPartialMutation(pet, partial); err != nil {
		return nil, err
	}
	return pet, nil
}

func applyPartialMutation(target *domain.Pet, input types.PetMutationInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Species != nil {
		if err := target.SetSpecies(*input.Species); err != nil {
			return err
		}
	}
	if input.Breed != nil {
		target.Breed = *input.Breed
	}
	if input.AgeMonths != nil {
		if err := target.SetAge(*input.AgeMonths); err != nil {
			return err
		}
	}
	if input.Description != nil {
		target.Description = *input.Description
	}
	if input.PhotoURLs != nil {
		if err := target.ReplacePhotos(*input.PhotoURLs); err != nil {
			return err
		}
	}
	if input.Tags != nil {
		tags := make([]domain.Tag, 0, len(*input.Tags))
		for _, t := range *input.Tags {
			tags = append(tags, domain.Tag{ID: t.ID, Name: t.Name})
		}
		target.ReplaceTags(tags)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
