package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	adoptiontypes "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	adoptionactivities "github.com/pawhaven/adoption-api-server/internal/platform/temporal/activities/adoptions"
)

// RunSubmissionSequence executes the activities needed to open an adoption
// application. Submission retries are safe: a replayed attempt either finds
// the ledger row already present and stops on the duplicate slot, or completes
// the pending transition it left unfinished.
func RunSubmissionSequence(ctx workflow.Context, input adoptiontypes.SubmitInput) (*domain.Application, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("adoption submission sequence started", "petId", input.PetID, "userId", input.Principal.UserID)
	submitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var app domain.Application
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, submitOptions), adoptionactivities.SubmitApplicationActivityName, input).Get(ctx, &app)
	if err != nil {
		logger.Error("adoption submission sequence failed", "petId", input.PetID, "error", err)
		return nil, err
	}
	logger.Info("adoption submission sequence completed", "applicationId", app.ID.String())
	return &app, nil
}
