package adoptionserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adoptionhttpmapper "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/http/mapper"
	adoptiontypes "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	adoptionports "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

// AdoptionAPI wires HTTP transport with the adoption workflow coordinator.
type AdoptionAPI struct {
	service     adoptionports.Service
	submissions adoptionports.SubmissionOrchestrator
}

// NewAdoptionAPI creates an AdoptionAPI backed by the coordinator and the
// configured submission orchestrator.
func NewAdoptionAPI(service adoptionports.Service, submissions adoptionports.SubmissionOrchestrator) AdoptionAPI {
	return AdoptionAPI{service: service, submissions: submissions}
}

// Post /v1/adoptions
// Submit an adoption application for a pet
func (api *AdoptionAPI) SubmitApplication(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload adoptionhttpmapper.SubmitRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := adoptiontypes.SubmitInput{Principal: principal, PetID: payload.PetID, Message: payload.Message}
	app, err := api.submit(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adoptionhttpmapper.FromDomain(app))
}

func (api *AdoptionAPI) submit(ctx context.Context, input adoptiontypes.SubmitInput) (*domain.Application, error) {
	if api.submissions != nil {
		return api.submissions.Submit(ctx, input)
	}
	return api.service.Submit(ctx, input)
}

// Post /v1/adoptions/:applicationId/approve
// Approve a pending application and commit the adoption
func (api *AdoptionAPI) ApproveApplication(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	// Notes are optional; an empty body is fine.
	var payload adoptionhttpmapper.DecisionRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := adoptiontypes.DecisionInput{Principal: principal, ApplicationID: id, Notes: payload.Notes}
	app, err := api.service.Approve(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDomain(app))
}

// Post /v1/adoptions/:applicationId/reject
// Reject a pending application
func (api *AdoptionAPI) RejectApplication(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	// Notes are optional; an empty body is fine.
	var payload adoptionhttpmapper.DecisionRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := adoptiontypes.DecisionInput{Principal: principal, ApplicationID: id, Notes: payload.Notes}
	app, err := api.service.Reject(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDomain(app))
}

// Delete /v1/adoptions/:applicationId
// Withdraw an application as its owner
func (api *AdoptionAPI) WithdrawApplication(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	input := adoptiontypes.WithdrawInput{Principal: principal, ApplicationID: id}
	if err := api.service.Withdraw(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/adoptions/:applicationId
// Load a single application for its owner or an admin
func (api *AdoptionAPI) GetApplicationById(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	app, err := api.service.Get(c.Request.Context(), adoptiontypes.GetInput{Principal: principal, ApplicationID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDomain(app))
}

// Get /v1/adoptions/own
// List the caller's applications
func (api *AdoptionAPI) ListOwnApplications(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	apps, err := api.service.ListOwn(c.Request.Context(), adoptiontypes.ListOwnInput{Principal: principal})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDomainList(apps))
}

// Get /v1/adoptions
// List every application, admin only
func (api *AdoptionAPI) ListAllApplications(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	apps, err := api.service.ListAll(c.Request.Context(), adoptiontypes.ListAllInput{Principal: principal})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDomainList(apps))
}

func parseApplicationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("applicationId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}
