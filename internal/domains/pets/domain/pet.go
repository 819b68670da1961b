package domain

import (
	"errors"
	"strings"
	"time"
)

// Status represents the availability lifecycle of a pet in the shelter catalog.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusPending      Status = "pending"
	StatusAdopted      Status = "adopted"
	StatusNotAvailable Status = "not_available"
	StatusFostered     Status = "fostered"
)

// CatalogStatuses are the states an administrator may set directly. The
// workflow states (pending, adopted) are only ever reached through the
// adoption coordinator.
var CatalogStatuses = []Status{StatusAvailable, StatusNotAvailable, StatusFostered}

// Tag is a lightweight marker attached to pets for filtering.
type Tag struct {
	ID   int64
	Name string
}

// Pet represents the aggregate managed by the pets bounded context.
type Pet struct {
	ID           int64
	Name         string
	Species      string
	Breed        string
	AgeMonths    int32
	Description  string
	PhotoURLs    []string
	Tags         []Tag
	Status       Status
	AdoptedBy    *int64
	AdoptionDate *time.Time
}

var (
	ErrEmptyName      = errors.New("pet name is required")
	ErrEmptySpecies   = errors.New("pet species is required")
	ErrEmptyPhotos    = errors.New("at least one photo url is required")
	ErrInvalidAge     = errors.New("age must be zero or greater")
	ErrInvalidStatus  = errors.New("pet status is invalid")
	ErrAlreadyAdopted = errors.New("pet is already adopted")
	ErrAdoptionFields = errors.New("adopted pets must carry adopter and adoption date")
)

// NewPet validates the invariants and builds a new Pet aggregate. Fresh pets
// always enter the catalog as available.
func NewPet(id int64, name, species string, photoURLs []string) (*Pet, error) {
	p := &Pet{ID: id, Status: StatusAvailable}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.SetSpecies(species); err != nil {
		return nil, err
	}
	if err := p.ReplacePhotos(photoURLs); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename mutates the pet name ensuring the invariant.
func (p *Pet) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SetSpecies sets the species descriptor.
func (p *Pet) SetSpecies(species string) error {
	if strings.TrimSpace(species) == "" {
		return ErrEmptySpecies
	}
	p.Species = species
	return nil
}

// ReplacePhotos ensures at least one photo is stored.
func (p *Pet) ReplacePhotos(urls []string) error {
	if len(urls) == 0 {
		return ErrEmptyPhotos
	}
	p.PhotoURLs = append([]string{}, urls...)
	return nil
}

// SetAge stores the age in months.
func (p *Pet) SetAge(months int32) error {
	if months < 0 {
		return ErrInvalidAge
	}
	p.AgeMonths = months
	return nil
}

// ReplaceTags swaps the current tag set.
func (p *Pet) ReplaceTags(tags []Tag) {
	p.Tags = append([]Tag{}, tags...)
}

// ChangeAvailability applies an administrative catalog transition. Workflow
// states cannot be entered here, and an adopted pet cannot be reclassified.
func (p *Pet) ChangeAvailability(status Status) error {
	if p.Status == StatusAdopted {
		return ErrAlreadyAdopted
	}
	for _, allowed := range CatalogStatuses {
		if status == allowed {
			p.Status = status
			return nil
		}
	}
	return ErrInvalidStatus
}

// MarkAdopted commits the adoption outcome. Adopted is terminal. The
// available/pending shuffle around it is a repository-level compare-and-set
// and has no aggregate mutator.
func (p *Pet) MarkAdopted(adopterID int64, at time.Time) error {
	if p.Status == StatusAdopted {
		return ErrAlreadyAdopted
	}
	p.Status = StatusAdopted
	p.AdoptedBy = &adopterID
	adoptionDate := at
	p.AdoptionDate = &adoptionDate
	return nil
}

// Validate re-applies core invariants for persistence, including the rule that
// adopter and adoption date are set exactly when the pet is adopted.
func (p *Pet) Validate() error {
	if err := p.Rename(p.Name); err != nil {
		return err
	}
	if err := p.SetSpecies(p.Species); err != nil {
		return err
	}
	if err := p.ReplacePhotos(p.PhotoURLs); err != nil {
		return err
	}
	if err := p.SetAge(p.AgeMonths); err != nil {
		return err
	}
	if !isValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	adopted := p.Status == StatusAdopted
	if adopted != (p.AdoptedBy != nil && p.AdoptionDate != nil) {
		return ErrAdoptionFields
	}
	return nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusAvailable, StatusPending, StatusAdopted, StatusNotAvailable, StatusFostered:
		return true
	default:
		return false
	}
}
