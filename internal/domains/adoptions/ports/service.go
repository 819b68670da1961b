package ports

import (
	"context"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
)

// Service is the adoption workflow surface: the four narrow state transitions
// plus read access. No other path may touch decision or availability fields.
type Service interface {
	Submit(ctx context.Context, input types.SubmitInput) (*domain.Application, error)
	Approve(ctx context.Context, input types.DecisionInput) (*domain.Application, error)
	Reject(ctx context.Context, input types.DecisionInput) (*domain.Application, error)
	Withdraw(ctx context.Context, input types.WithdrawInput) error
	Get(ctx context.Context, input types.GetInput) (*domain.Application, error)
	ListOwn(ctx context.Context, input types.ListOwnInput) ([]*domain.Application, error)
	ListAll(ctx context.Context, input types.ListAllInput) ([]*domain.Application, error)
}

// SubmissionOrchestrator abstracts how a submission is executed: inline in the
// request, or as a durable workflow.
type SubmissionOrchestrator interface {
	Submit(ctx context.Context, input types.SubmitInput) (*domain.Application, error)
}
