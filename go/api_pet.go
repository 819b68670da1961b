package adoptionserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pethttpmapper "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	petsports "github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

// PetAPI wires HTTP transport with the pets bounded context service.
type PetAPI struct {
	service petsports.Service
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.Service) PetAPI {
	return PetAPI{service: service}
}

// Post /v1/pets
// Add a new pet to the catalog
func (api *PetAPI) AddPet(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload pethttpmapper.MutationPet
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := petstypes.AddPetInput{Principal: principal, PetMutationInput: pethttpmapper.ToMutationInput(payload)}
	saved, err := api.service.AddPet(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pethttpmapper.FromProjection(saved))
}

// Put /v1/pets
// Update an existing pet's catalog fields
func (api *PetAPI) UpdatePet(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload pethttpmapper.MutationPet
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := petstypes.UpdatePetInput{Principal: principal, PetMutationInput: pethttpmapper.ToMutationInput(payload)}
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// Get /v1/pets
// List all pets
func (api *PetAPI) ListPets(c *gin.Context) {
	result, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// Get /v1/pets/findByStatus
// Finds pets by availability status
func (api *PetAPI) FindPetsByStatus(c *gin.Context) {
	statuses := c.QueryArray("status")
	result, err := api.service.FindByStatus(c.Request.Context(), petstypes.FindPetsByStatusInput{Statuses: statuses})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// Get /v1/pets/:petId
// Find pet by ID
func (api *PetAPI) GetPetById(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := api.service.GetByID(c.Request.Context(), petstypes.PetIdentifier{ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(pet))
}

// Delete /v1/pets/:petId
// Removes a pet from the catalog
func (api *PetAPI) DeletePet(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	input := petstypes.DeletePetInput{Principal: principal, PetIdentifier: petstypes.PetIdentifier{ID: id}}
	if err := api.service.Delete(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/pets/:petId/availability
// Moves a pet between administrative catalog states
func (api *PetAPI) ChangePetAvailability(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	var payload pethttpmapper.AvailabilityChange
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := petstypes.ChangeAvailabilityInput{Principal: principal, ID: id, Status: payload.Status}
	updated, err := api.service.ChangeAvailability(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
