package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	adoptiontypes "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
	adoptionworkflows "github.com/pawhaven/adoption-api-server/internal/platform/temporal/workflows/adoptions"
)

var (
	_ ports.SubmissionOrchestrator = (*TemporalSubmissions)(nil)
	_ ports.SubmissionOrchestrator = (*InlineSubmissions)(nil)
)

// TemporalSubmissions starts adoption submission workflows on a Temporal cluster.
type TemporalSubmissions struct {
	client    client.Client
	taskQueue string
}

// NewTemporalSubmissions wires a Temporal client into the orchestrator.
func NewTemporalSubmissions(c client.Client) *TemporalSubmissions {
	return &TemporalSubmissions{client: c, taskQueue: adoptionworkflows.SubmissionTaskQueue}
}

// Submit starts the durable submission workflow. The workflow ID is keyed on
// the (user, pet) pair, so a client retrying into an in-flight submission
// attaches to the running execution instead of starting a second one.
func (o *TemporalSubmissions) Submit(ctx context.Context, input adoptiontypes.SubmitInput) (*domain.Application, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal adoption submissions not configured")
	}
	workflowID := buildSubmissionWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		adoptionworkflows.SubmissionWorkflow,
		adoptionworkflows.SubmissionWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var app domain.Application
			if err := existingRun.Get(ctx, &app); err != nil {
				return nil, err
			}
			return &app, nil
		}
		return nil, err
	}
	var app domain.Application
	if err := run.Get(ctx, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// InlineSubmissions executes the coordinator directly without Temporal, useful
// for tests or dev fallbacks.
type InlineSubmissions struct {
	service ports.Service
}

// NewInlineSubmissions wraps the coordinator for synchronous execution.
func NewInlineSubmissions(service ports.Service) *InlineSubmissions {
	return &InlineSubmissions{service: service}
}

// Submit delegates to the coordinator without durable orchestration.
func (o *InlineSubmissions) Submit(ctx context.Context, input adoptiontypes.SubmitInput) (*domain.Application, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline adoption submissions not configured")
	}
	return o.service.Submit(ctx, input)
}

func buildSubmissionWorkflowID(input adoptiontypes.SubmitInput) string {
	return fmt.Sprintf("adoption-submission-%d-%d", input.Principal.UserID, input.PetID)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
