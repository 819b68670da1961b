package adoptions

import (
	"go.temporal.io/sdk/workflow"

	adoptiontypes "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/platform/temporal/sequences"
)

const (
	// SubmissionWorkflowName is the public identifier for registering the workflow.
	SubmissionWorkflowName = "adoptions.workflows.Submission"
	// SubmissionTaskQueue is the queue consumed by the worker processing adoption workflows.
	SubmissionTaskQueue = "ADOPTION_SUBMISSION"
)

// SubmissionWorkflowInput captures the payload required to open an application.
type SubmissionWorkflowInput struct {
	Command adoptiontypes.SubmitInput
	TraceID string
}

// SubmissionWorkflow orchestrates the activities that open an adoption application.
func SubmissionWorkflow(ctx workflow.Context, input SubmissionWorkflowInput) (*domain.Application, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("SubmissionWorkflow started", withTraceID(input.TraceID, "petId", input.Command.PetID, "userId", input.Command.Principal.UserID)...)
	app, err := sequences.RunSubmissionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("SubmissionWorkflow failed", withTraceID(input.TraceID, "petId", input.Command.PetID, "error", err)...)
		return nil, err
	}
	logger.Info("SubmissionWorkflow completed", withTraceID(input.TraceID, "applicationId", app.ID.String())...)
	return app, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
