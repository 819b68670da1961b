package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
	petsdomain "github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	petsports "github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

// Coordinator implements the adoption workflow across the application ledger
// and the pet registry. The two stores only guarantee atomicity per single
// record, so every cross-entity step is ordered around a conditional write:
// the ledger's uniqueness constraint arbitrates duplicate submissions, and the
// registry's guarded status updates arbitrate competing decisions. Operations
// are fail-fast; nothing blocks or retries internally.
type Coordinator struct {
	ledger ports.Ledger
	pets   ports.PetRegistry
	now    func() time.Time
}

type CoordinatorOption func(*Coordinator)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator wires the workflow with its collaborators.
func NewCoordinator(ledger ports.Ledger, pets ports.PetRegistry, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{ledger: ledger, pets: pets, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Submit opens a Pending application for the pet. The ledger insert is the
// uniqueness arbiter: two concurrent submissions for the same (user, pet)
// pair resolve to exactly one success regardless of timing. The pet is then
// moved available -> pending; a pet that is already pending stays pending.
func (c *Coordinator) Submit(ctx context.Context, input types.SubmitInput) (*domain.Application, error) {
	if _, err := c.pets.GetByID(ctx, input.PetID); err != nil {
		if errors.Is(err, petsports.ErrNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	app, err := domain.NewApplication(input.Principal.UserID, input.PetID, input.Message, c.now())
	if err != nil {
		return nil, err
	}
	saved, err := c.ledger.InsertUnique(ctx, app)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}
	if err := c.markPetPending(ctx, input.PetID); err != nil {
		return nil, fmt.Errorf("%w: application %s stored but pet %d was not marked pending: %v",
			ErrInternalInconsistency, saved.ID, input.PetID, err)
	}
	return saved, nil
}

// Approve commits an adoption. The guarded pet write runs first and is the
// arbiter: only one approval can move a pet into the terminal adopted state,
// any concurrent loser observes Conflict with its application untouched. The
// decision write is deferred until the pet write is confirmed, so no rollback
// of an Approved application is ever needed.
func (c *Coordinator) Approve(ctx context.Context, input types.DecisionInput) (*domain.Application, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	app, err := c.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsPending() {
		return nil, ErrConflict
	}
	decidedAt := c.now()
	if err := c.pets.MarkAdopted(ctx, app.PetID, app.UserID, decidedAt); err != nil {
		switch {
		case errors.Is(err, petsports.ErrStatusConflict):
			return nil, ErrConflict
		case errors.Is(err, petsports.ErrNotFound):
			return nil, ErrPetNotFound
		default:
			return nil, err
		}
	}
	if err := c.ledger.UpdateDecision(ctx, app.ID, domain.StatusApproved, input.Notes, decidedAt); err != nil {
		return nil, fmt.Errorf("%w: pet %d adopted but application %s decision not recorded: %v",
			ErrInternalInconsistency, app.PetID, app.ID, err)
	}
	return c.ledger.GetByID(ctx, app.ID)
}

// Reject records a rejection and returns the pet to the available pool. The
// revert deliberately does not consult other Pending applications for the
// same pet; a rejection clears the slate (see the withdrawal asymmetry in
// DESIGN.md). The revert is a pending -> available compare-and-set, so a pet
// adopted through another application is never pulled back.
func (c *Coordinator) Reject(ctx context.Context, input types.DecisionInput) (*domain.Application, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	app, err := c.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsPending() {
		return nil, ErrConflict
	}
	decidedAt := c.now()
	if err := c.ledger.UpdateDecision(ctx, app.ID, domain.StatusRejected, input.Notes, decidedAt); err != nil {
		switch {
		case errors.Is(err, ports.ErrAlreadyDecided):
			return nil, ErrConflict
		case errors.Is(err, ports.ErrNotFound):
			return nil, ErrApplicationNotFound
		default:
			return nil, err
		}
	}
	if err := c.releasePet(ctx, app.PetID); err != nil {
		return nil, fmt.Errorf("%w: application %s rejected but pet %d was not released: %v",
			ErrInternalInconsistency, app.ID, app.PetID, err)
	}
	return c.ledger.GetByID(ctx, app.ID)
}

// Withdraw deletes an application on behalf of its owner. The pet reverts to
// available only when no other Pending application still targets it.
func (c *Coordinator) Withdraw(ctx context.Context, input types.WithdrawInput) error {
	app, err := c.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return err
	}
	if !app.OwnedBy(input.Principal.UserID) {
		return ErrForbidden
	}
	if err := c.ledger.DeleteByID(ctx, app.ID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	remaining, err := c.ledger.ExistsPending(ctx, app.PetID, app.ID)
	if err != nil {
		return fmt.Errorf("%w: application %s withdrawn but pending check for pet %d failed: %v",
			ErrInternalInconsistency, app.ID, app.PetID, err)
	}
	if remaining {
		return nil
	}
	if err := c.releasePet(ctx, app.PetID); err != nil {
		return fmt.Errorf("%w: application %s withdrawn but pet %d was not released: %v",
			ErrInternalInconsistency, app.ID, app.PetID, err)
	}
	return nil
}

// Get loads a single application for its owner or an admin.
func (c *Coordinator) Get(ctx context.Context, input types.GetInput) (*domain.Application, error) {
	app, err := c.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.OwnedBy(input.Principal.UserID) && !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	return app, nil
}

// ListOwn returns the caller's applications.
func (c *Coordinator) ListOwn(ctx context.Context, input types.ListOwnInput) ([]*domain.Application, error) {
	return c.ledger.ListByUser(ctx, input.Principal.UserID)
}

// ListAll returns every application; admin only.
func (c *Coordinator) ListAll(ctx context.Context, input types.ListAllInput) ([]*domain.Application, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrForbidden
	}
	return c.ledger.ListAll(ctx)
}

func (c *Coordinator) loadApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := c.ledger.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// markPetPending applies the available -> pending transition. A pet that is
// already pending is left as is; any other state keeps its status, because
// availability is owned by the decision paths.
func (c *Coordinator) markPetPending(ctx context.Context, petID int64) error {
	err := c.pets.CompareAndSetStatus(ctx, petID, petsdomain.StatusAvailable, petsdomain.StatusPending)
	if err == nil || errors.Is(err, petsports.ErrStatusConflict) {
		return nil
	}
	return err
}

// releasePet applies the pending -> available revert. A conditional miss
// means the pet has moved on (typically adopted through another application)
// and the revert must not overwrite that outcome.
func (c *Coordinator) releasePet(ctx context.Context, petID int64) error {
	err := c.pets.CompareAndSetStatus(ctx, petID, petsdomain.StatusPending, petsdomain.StatusAvailable)
	if err == nil || errors.Is(err, petsports.ErrStatusConflict) {
		return nil
	}
	return err
}

var _ ports.Service = (*Coordinator)(nil)
