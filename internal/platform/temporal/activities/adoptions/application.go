package adoptions

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application"
	adoptiontypes "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	adoptionports "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

const (
	// SubmitApplicationActivityName runs the submission transition against the ledger and registry.
	SubmitApplicationActivityName = "adoptions.activities.SubmitApplication"

	// InconsistencyErrorType tags partial multi-write failures so retry policies can exclude them.
	InconsistencyErrorType = "AdoptionRecordsInconsistent"
)

// Activities groups activities that operate on the adoptions bounded context.
type Activities struct {
	coordinator adoptionports.Service
}

// NewActivities wires the adoption coordinator into the Temporal activities bundle.
func NewActivities(coordinator adoptionports.Service) *Activities {
	return &Activities{coordinator: coordinator}
}

// SubmitApplication opens an adoption application. Terminal workflow outcomes
// (duplicate slot, missing pet, inconsistency) are surfaced as non-retryable
// application errors so the workflow fails fast instead of hammering the store.
func (a *Activities) SubmitApplication(ctx context.Context, input adoptiontypes.SubmitInput) (*domain.Application, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.coordinator == nil {
		logger.Error("adoption submit activity not initialized", "petId", input.PetID)
		return nil, errors.New("adoption submit activity not initialized")
	}
	logger.Info("SubmitApplication activity started", "petId", input.PetID, "userId", input.Principal.UserID)
	app, err := a.coordinator.Submit(ctx, input)
	if err != nil {
		logger.Error("SubmitApplication activity failed", "petId", input.PetID, "error", err)
		return nil, classifySubmitError(err)
	}
	logger.Info("SubmitApplication activity completed", "applicationId", app.ID.String())
	return app, nil
}

func classifySubmitError(err error) error {
	switch {
	case errors.Is(err, application.ErrDuplicateApplication):
		return temporal.NewNonRetryableApplicationError(err.Error(), "DuplicateApplication", err)
	case errors.Is(err, application.ErrPetNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), "PetNotFound", err)
	case errors.Is(err, application.ErrInternalInconsistency):
		return temporal.NewNonRetryableApplicationError(err.Error(), InconsistencyErrorType, err)
	default:
		return err
	}
}
