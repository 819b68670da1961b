package mapper

import (
	"time"

	pettypes "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
)

// Tag is the HTTP representation of a pet tag.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// MutationPet captures inbound payloads for create/update flows while
// preserving field presence. Status and adoption fields are intentionally not
// bindable; the adoption endpoints own those transitions.
type MutationPet struct {
	ID          int64     `json:"id,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Species     *string   `json:"species,omitempty"`
	Breed       *string   `json:"breed,omitempty"`
	AgeMonths   *int32    `json:"ageMonths,omitempty"`
	Description *string   `json:"description,omitempty"`
	PhotoURLs   *[]string `json:"photoUrls,omitempty"`
	Tags        *[]Tag    `json:"tags,omitempty"`
}

// Pet is the HTTP representation of a catalog pet.
type Pet struct {
	ID           int64      `json:"id,omitempty"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        string     `json:"breed,omitempty"`
	AgeMonths    int32      `json:"ageMonths,omitempty"`
	Description  string     `json:"description,omitempty"`
	PhotoURLs    []string   `json:"photoUrls"`
	Tags         []Tag      `json:"tags,omitempty"`
	Status       string     `json:"status,omitempty"`
	AdoptedBy    *int64     `json:"adoptedBy,omitempty"`
	AdoptionDate *time.Time `json:"adoptionDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt,omitempty"`
}

// AvailabilityChange is the payload for the admin availability endpoint.
type AvailabilityChange struct {
	Status string `json:"status" binding:"required"`
}

// ToMutationInput converts a transport payload into the application command.
func ToMutationInput(payload MutationPet) pettypes.PetMutationInput {
	input := pettypes.PetMutationInput{
		ID:          payload.ID,
		Name:        payload.Name,
		Species:     payload.Species,
		Breed:       payload.Breed,
		AgeMonths:   payload.AgeMonths,
		Description: payload.Description,
		PhotoURLs:   payload.PhotoURLs,
	}
	if payload.Tags != nil {
		tags := make([]pettypes.TagInput, 0, len(*payload.Tags))
		for _, t := range *payload.Tags {
			tags = append(tags, pettypes.TagInput{ID: t.ID, Name: t.Name})
		}
		input.Tags = &tags
	}
	return input
}

// FromProjection maps an application projection to the transport shape.
func FromProjection(projection *pettypes.PetProjection) Pet {
	if projection == nil || projection.Pet == nil {
		return Pet{}
	}
	source := projection.Pet
	result := Pet{
		ID:           source.ID,
		Name:         source.Name,
		Species:      source.Species,
		Breed:        source.Breed,
		AgeMonths:    source.AgeMonths,
		Description:  source.Description,
		PhotoURLs:    append([]string{}, source.PhotoURLs...),
		Status:       string(source.Status),
		AdoptedBy:    source.AdoptedBy,
		AdoptionDate: source.AdoptionDate,
		CreatedAt:    projection.Metadata.CreatedAt,
		UpdatedAt:    projection.Metadata.UpdatedAt,
	}
	for _, tag := range source.Tags {
		result.Tags = append(result.Tags, Tag{ID: tag.ID, Name: tag.Name})
	}
	return result
}

// FromProjectionList maps a slice of projections.
func FromProjectionList(projections []*pettypes.PetProjection) []Pet {
	result := make([]Pet, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromProjection(projection))
	}
	return result
}
