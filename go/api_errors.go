package adoptionserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	adoptionsapp "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application"
	petsapp "github.com/pawhaven/adoption-api-server/internal/domains/pets/application"
	petsports "github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
	usersapp "github.com/pawhaven/adoption-api-server/internal/domains/users/application"
	userports "github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
	apierrors "github.com/pawhaven/adoption-api-server/internal/shared/errors"
)

// serviceResponder maps every application-layer sentinel onto its RFC 7807
// problem. The inconsistency sentinel deliberately maps to a generic internal
// problem: the detail belongs in the operator log, not the response body.
var serviceResponder = apierrors.NewChainedResponder("",
	mapAdoptionErrors,
	mapPetErrors,
	mapUserErrors,
)

func mapAdoptionErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, adoptionsapp.ErrPetNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "pet"), true
	case errors.Is(err, adoptionsapp.ErrApplicationNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "application"), true
	case errors.Is(err, adoptionsapp.ErrDuplicateApplication):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, adoptionsapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, adoptionsapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, adoptionsapp.ErrInternalInconsistency):
		return apierrors.ErrInternal, true
	}
	return apierrors.ProblemDetail{}, false
}

func mapPetErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "pet"), true
	case errors.Is(err, petsports.ErrStatusConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "user"), true
	case errors.Is(err, usersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, usersapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, usersapp.ErrInvalidToken):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError maps an application error through the shared responder.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceResponder.RespondError(c, err)
}

// respondError preserves the existing call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	apierrors.Respond(c, problem)
}
