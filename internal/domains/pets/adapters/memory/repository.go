package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	types "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

var _ ports.Repository = (*Repository)(nil)

type record struct {
	pet       domain.Pet
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory pet persistence adapter. All mutations take the
// write lock, so the conditional status operations keep the same single-record
// atomicity contract as the PostgreSQL adapter.
type Repository struct {
	mu     sync.RWMutex
	pets   map[int64]*record
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{pets: map[int64]*record{}}
}

// Save inserts or updates the catalog fields of a pet. The stored workflow
// fields are preserved for existing pets.
func (r *Repository) Save(_ context.Context, pet *domain.Pet) (*types.PetProjection, error) {
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	clone := clonePet(pet)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if existing, ok := r.pets[clone.ID]; ok {
		clone.Status = existing.pet.Status
		clone.AdoptedBy = existing.pet.AdoptedBy
		clone.AdoptionDate = existing.pet.AdoptionDate
		if err := clone.Validate(); err != nil {
			return nil, err
		}
		existing.pet = clone
		existing.updatedAt = now
		return projectionOf(existing), nil
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	rec := &record{pet: clone, createdAt: now, updatedAt: now}
	r.pets[clone.ID] = rec
	return projectionOf(rec), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*types.PetProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionOf(rec), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *Repository) FindByStatus(_ context.Context, statuses []domain.Status) ([]*types.PetProjection, error) {
	wanted := make(map[domain.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*types.PetProjection
	for _, rec := range r.pets {
		if _, ok := wanted[rec.pet.Status]; ok {
			result = append(result, projectionOf(rec))
		}
	}
	return result, nil
}

func (r *Repository) List(_ context.Context) ([]*types.PetProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*types.PetProjection, 0, len(r.pets))
	for _, rec := range r.pets {
		result = append(result, projectionOf(rec))
	}
	return result, nil
}

// CompareAndSetStatus updates the status only when the stored value matches
// the expectation.
func (r *Repository) CompareAndSetStatus(_ context.Context, id int64, expected, next domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.pets[id]
	if !ok {
		return ports.ErrNotFound
	}
	if rec.pet.Status != expected {
		return ports.ErrStatusConflict
	}
	rec.pet.Status = next
	rec.updatedAt = time.Now()
	return nil
}

// MarkAdopted commits the adopted state unless the pet is already adopted.
func (r *Repository) MarkAdopted(_ context.Context, id int64, adopterID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.pets[id]
	if !ok {
		return ports.ErrNotFound
	}
	if rec.pet.Status == domain.StatusAdopted {
		return ports.ErrStatusConflict
	}
	if err := rec.pet.MarkAdopted(adopterID, at); err != nil {
		return ports.ErrStatusConflict
	}
	rec.updatedAt = time.Now()
	return nil
}

// ClearAdoption reverts an adopted pet to available, clearing the adoption
// fields. Used for operator remediation only.
func (r *Repository) ClearAdoption(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.pets[id]
	if !ok {
		return ports.ErrNotFound
	}
	if rec.pet.Status != domain.StatusAdopted {
		return ports.ErrStatusConflict
	}
	rec.pet.Status = domain.StatusAvailable
	rec.pet.AdoptedBy = nil
	rec.pet.AdoptionDate = nil
	rec.updatedAt = time.Now()
	return nil
}

func projectionOf(rec *record) *types.PetProjection {
	clone := clonePet(&rec.pet)
	return types.NewPetProjection(&clone, rec.createdAt, rec.updatedAt)
}

func clonePet(pet *domain.Pet) domain.Pet {
	clone := *pet
	clone.PhotoURLs = append([]string{}, pet.PhotoURLs...)
	clone.Tags = append([]domain.Tag{}, pet.Tags...)
	if pet.AdoptedBy != nil {
		adopter := *pet.AdoptedBy
		clone.AdoptedBy = &adopter
	}
	if pet.AdoptionDate != nil {
		date := *pet.AdoptionDate
		clone.AdoptionDate = &date
	}
	return clone
}
