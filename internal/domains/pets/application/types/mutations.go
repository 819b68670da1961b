package types

import "github.com/pawhaven/adoption-api-server/internal/shared/auth"

// PetIdentifier addresses a single pet.
type PetIdentifier struct {
	ID int64
}

// TagInput mirrors a tag payload before it becomes a domain value.
type TagInput struct {
	ID   int64
	Name string
}

// PetMutationInput captures inbound catalog fields while preserving field
// presence. Workflow fields (status, adopter, adoption date) are deliberately
// absent; those change only through the adoption coordinator.
type PetMutationInput struct {
	ID          int64
	Name        *string
	Species     *string
	Breed       *string
	AgeMonths   *int32
	Description *string
	PhotoURLs   *[]string
	Tags        *[]TagInput
}

// AddPetInput registers a new pet in the catalog.
type AddPetInput struct {
	Principal auth.Principal
	PetMutationInput
}

// UpdatePetInput applies a partial catalog mutation to an existing pet.
type UpdatePetInput struct {
	Principal auth.Principal
	PetMutationInput
}

// DeletePetInput removes a pet from the catalog.
type DeletePetInput struct {
	Principal auth.Principal
	PetIdentifier
}

// ChangeAvailabilityInput moves a pet between administrative catalog states.
type ChangeAvailabilityInput struct {
	Principal auth.Principal
	ID        int64
	Status    string
}

// FindPetsByStatusInput searches pets matching any of the provided statuses.
type FindPetsByStatusInput struct {
	Statuses []string
}
