package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	adoptionsmemory "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/memory"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
	petsmemory "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/memory"
	petsdomain "github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

var (
	alice = auth.Principal{UserID: 1, Username: "alice", Role: auth.RoleAdopter}
	bob   = auth.Principal{UserID: 2, Username: "bob", Role: auth.RoleAdopter}
	admin = auth.Principal{UserID: 9, Username: "root", Role: auth.RoleAdmin}
)

func newFixture(t *testing.T) (*Coordinator, *adoptionsmemory.Ledger, *petsmemory.Repository) {
	t.Helper()
	ledger := adoptionsmemory.NewLedger()
	pets := petsmemory.NewRepository()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	coordinator := NewCoordinator(ledger, pets, WithClock(func() time.Time { return now }))
	return coordinator, ledger, pets
}

func seedPet(t *testing.T, pets *petsmemory.Repository, id int64) {
	t.Helper()
	pet, err := petsdomain.NewPet(id, "Rex", "dog", []string{"https://example.org/rex.jpg"})
	require.NoError(t, err)
	_, err = pets.Save(context.Background(), pet)
	require.NoError(t, err)
}

func petStatus(t *testing.T, pets *petsmemory.Repository, id int64) petsdomain.Status {
	t.Helper()
	projection, err := pets.GetByID(context.Background(), id)
	require.NoError(t, err)
	return projection.Pet.Status
}

func submit(t *testing.T, c *Coordinator, p auth.Principal, petID int64) *domain.Application {
	t.Helper()
	app, err := c.Submit(context.Background(), submitInput(p, petID))
	require.NoError(t, err)
	return app
}

func submitInput(p auth.Principal, petID int64) types.SubmitInput {
	return types.SubmitInput{Principal: p, PetID: petID, Message: "we have a big garden"}
}

func decisionInput(p auth.Principal, id uuid.UUID) types.DecisionInput {
	return types.DecisionInput{Principal: p, ApplicationID: id, Notes: "reviewed"}
}

func withdrawInput(p auth.Principal, id uuid.UUID) types.WithdrawInput {
	return types.WithdrawInput{Principal: p, ApplicationID: id}
}

func TestSubmit_MovesPetToPending(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)

	app := submit(t, coordinator, alice, 1)

	require.Equal(t, domain.StatusPending, app.Status)
	require.Equal(t, alice.UserID, app.UserID)
	require.NotEqual(t, uuid.Nil, app.ID)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestSubmit_PetMissing(t *testing.T) {
	coordinator, _, _ := newFixture(t)

	_, err := coordinator.Submit(context.Background(), submitInput(alice, 404))
	require.ErrorIs(t, err, ErrPetNotFound)
}

func TestSubmit_DuplicateSlot(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	submit(t, coordinator, alice, 1)

	_, err := coordinator.Submit(context.Background(), submitInput(alice, 1))
	require.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestSubmit_DuplicateSlotAfterDecision(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	_, err := coordinator.Reject(context.Background(), decisionInput(admin, app.ID))
	require.NoError(t, err)

	// The slot stays occupied by the rejected application.
	_, err = coordinator.Submit(context.Background(), submitInput(alice, 1))
	require.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestSubmit_SecondApplicantKeepsPetPending(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	submit(t, coordinator, alice, 1)

	app := submit(t, coordinator, bob, 1)

	require.Equal(t, domain.StatusPending, app.Status)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestSubmit_ConcurrentDuplicates(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = coordinator.Submit(context.Background(), submitInput(alice, 1))
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateApplication):
			duplicates++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, attempts-1, duplicates)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestApprove_CommitsAdoption(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	decided, err := coordinator.Approve(context.Background(), decisionInput(admin, app.ID))
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedDate)
	require.Equal(t, "reviewed", decided.AdminNotes)

	projection, err := pets.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, petsdomain.StatusAdopted, projection.Pet.Status)
	require.NotNil(t, projection.Pet.AdoptedBy)
	require.Equal(t, alice.UserID, *projection.Pet.AdoptedBy)
	require.NotNil(t, projection.Pet.AdoptionDate)
}

func TestApprove_RequiresAdmin(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	_, err := coordinator.Approve(context.Background(), decisionInput(bob, app.ID))
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestApprove_UnknownApplication(t *testing.T) {
	coordinator, _, _ := newFixture(t)

	_, err := coordinator.Approve(context.Background(), decisionInput(admin, uuid.New()))
	require.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApprove_AlreadyDecided(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	_, err := coordinator.Approve(context.Background(), decisionInput(admin, app.ID))
	require.NoError(t, err)

	_, err = coordinator.Approve(context.Background(), decisionInput(admin, app.ID))
	require.ErrorIs(t, err, ErrConflict)
}

func TestApprove_ConcurrentRivalApplications(t *testing.T) {
	coordinator, ledger, pets := newFixture(t)
	seedPet(t, pets, 1)
	first := submit(t, coordinator, alice, 1)
	second := submit(t, coordinator, bob, 1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(slot int, appID uuid.UUID) {
			defer wg.Done()
			_, results[slot] = coordinator.Approve(context.Background(), decisionInput(admin, appID))
		}(i, id)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected approve error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, 1, conflicts)
	require.Equal(t, petsdomain.StatusAdopted, petStatus(t, pets, 1))

	// The loser's application is untouched and can still be rejected.
	apps, err := ledger.ListAll(context.Background())
	require.NoError(t, err)
	var pendingCount int
	for _, app := range apps {
		if app.IsPending() {
			pendingCount++
		}
	}
	require.Equal(t, 1, pendingCount)
}

func TestApprove_DecisionWriteFailureIsInconsistency(t *testing.T) {
	ledger := &failingLedger{Ledger: adoptionsmemory.NewLedger(), failUpdate: true}
	pets := petsmemory.NewRepository()
	coordinator := NewCoordinator(ledger, pets)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	_, err := coordinator.Approve(context.Background(), decisionInput(admin, app.ID))
	require.ErrorIs(t, err, ErrInternalInconsistency)

	// The pet write already committed; the ledger lags behind.
	require.Equal(t, petsdomain.StatusAdopted, petStatus(t, pets, 1))
}

func TestSubmit_PetWriteFailureIsInconsistency(t *testing.T) {
	ledger := adoptionsmemory.NewLedger()
	pets := &failingRegistry{Repository: petsmemory.NewRepository()}
	coordinator := NewCoordinator(ledger, pets)
	seedPet(t, pets.Repository, 1)
	pets.failCAS = true

	_, err := coordinator.Submit(context.Background(), submitInput(alice, 1))
	require.ErrorIs(t, err, ErrInternalInconsistency)
	require.Equal(t, petsdomain.StatusAvailable, petStatus(t, pets.Repository, 1))

	// The insert committed before the pet write failed; the slot stays occupied.
	pets.failCAS = false
	_, err = coordinator.Submit(context.Background(), submitInput(alice, 1))
	require.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestReject_ReturnsPetToPool(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	decided, err := coordinator.Reject(context.Background(), decisionInput(admin, app.ID))
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, decided.Status)
	require.NotNil(t, decided.DecidedDate)
	require.Equal(t, petsdomain.StatusAvailable, petStatus(t, pets, 1))
}

func TestReject_RequiresAdmin(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	_, err := coordinator.Reject(context.Background(), decisionInput(alice, app.ID))
	require.ErrorIs(t, err, ErrForbidden)
}

func TestReject_DoesNotRevertAdoptedPet(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	winner := submit(t, coordinator, alice, 1)
	loser := submit(t, coordinator, bob, 1)

	_, err := coordinator.Approve(context.Background(), decisionInput(admin, winner.ID))
	require.NoError(t, err)

	decided, err := coordinator.Reject(context.Background(), decisionInput(admin, loser.ID))
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, decided.Status)
	require.Equal(t, petsdomain.StatusAdopted, petStatus(t, pets, 1))
}

func TestReject_ReleaseFailureIsInconsistency(t *testing.T) {
	ledger := adoptionsmemory.NewLedger()
	pets := &failingRegistry{Repository: petsmemory.NewRepository()}
	coordinator := NewCoordinator(ledger, pets)
	seedPet(t, pets.Repository, 1)
	app := submit(t, coordinator, alice, 1)
	pets.failCAS = true

	_, err := coordinator.Reject(context.Background(), decisionInput(admin, app.ID))
	require.ErrorIs(t, err, ErrInternalInconsistency)

	// The decision committed before the revert failed; the pet lags behind.
	stored, err := ledger.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, stored.Status)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets.Repository, 1))
}

func TestWithdraw_OwnerOnly(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	err := coordinator.Withdraw(context.Background(), withdrawInput(bob, app.ID))
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestWithdraw_LastApplicationReleasesPet(t *testing.T) {
	coordinator, ledger, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	require.NoError(t, coordinator.Withdraw(context.Background(), withdrawInput(alice, app.ID)))
	require.Equal(t, petsdomain.StatusAvailable, petStatus(t, pets, 1))

	_, err := ledger.GetByID(context.Background(), app.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	// The slot is free again; resubmission is allowed.
	resubmitted := submit(t, coordinator, alice, 1)
	require.Equal(t, domain.StatusPending, resubmitted.Status)
}

func TestWithdraw_OtherPendingKeepsPetPending(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	first := submit(t, coordinator, alice, 1)
	submit(t, coordinator, bob, 1)

	require.NoError(t, coordinator.Withdraw(context.Background(), withdrawInput(alice, first.ID)))
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestWithdraw_ReleaseFailureIsInconsistency(t *testing.T) {
	ledger := adoptionsmemory.NewLedger()
	pets := &failingRegistry{Repository: petsmemory.NewRepository()}
	coordinator := NewCoordinator(ledger, pets)
	seedPet(t, pets.Repository, 1)
	app := submit(t, coordinator, alice, 1)
	pets.failCAS = true

	err := coordinator.Withdraw(context.Background(), withdrawInput(alice, app.ID))
	require.ErrorIs(t, err, ErrInternalInconsistency)

	// The delete committed before the revert failed.
	_, err = ledger.GetByID(context.Background(), app.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets.Repository, 1))
}

func TestWithdraw_PendingCheckFailureIsInconsistency(t *testing.T) {
	ledger := &failingLedger{Ledger: adoptionsmemory.NewLedger()}
	pets := petsmemory.NewRepository()
	coordinator := NewCoordinator(ledger, pets)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)
	ledger.failExists = true

	err := coordinator.Withdraw(context.Background(), withdrawInput(alice, app.ID))
	require.ErrorIs(t, err, ErrInternalInconsistency)
	require.Equal(t, petsdomain.StatusPending, petStatus(t, pets, 1))
}

func TestGet_OwnerOrAdmin(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	app := submit(t, coordinator, alice, 1)

	input := types.GetInput{Principal: alice, ApplicationID: app.ID}
	got, err := coordinator.Get(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, app.ID, got.ID)

	input.Principal = bob
	_, err = coordinator.Get(context.Background(), input)
	require.ErrorIs(t, err, ErrForbidden)

	input.Principal = admin
	_, err = coordinator.Get(context.Background(), input)
	require.NoError(t, err)
}

func TestListAll_RequiresAdmin(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	submit(t, coordinator, alice, 1)

	input := types.ListAllInput{Principal: alice}
	_, err := coordinator.ListAll(context.Background(), input)
	require.ErrorIs(t, err, ErrForbidden)

	input.Principal = admin
	apps, err := coordinator.ListAll(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, apps, 1)
}

func TestListOwn_FiltersByCaller(t *testing.T) {
	coordinator, _, pets := newFixture(t)
	seedPet(t, pets, 1)
	seedPet(t, pets, 2)
	submit(t, coordinator, alice, 1)
	submit(t, coordinator, bob, 2)

	input := types.ListOwnInput{Principal: alice}
	apps, err := coordinator.ListOwn(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, alice.UserID, apps[0].UserID)
}

// failingLedger wraps the memory ledger with injectable failures.
type failingLedger struct {
	*adoptionsmemory.Ledger
	failUpdate bool
	failExists bool
}

func (f *failingLedger) UpdateDecision(ctx context.Context, id uuid.UUID, status domain.Status, notes string, decidedAt time.Time) error {
	if f.failUpdate {
		return errors.New("connection reset by peer")
	}
	return f.Ledger.UpdateDecision(ctx, id, status, notes, decidedAt)
}

func (f *failingLedger) ExistsPending(ctx context.Context, petID int64, excluding uuid.UUID) (bool, error) {
	if f.failExists {
		return false, errors.New("connection reset by peer")
	}
	return f.Ledger.ExistsPending(ctx, petID, excluding)
}

// failingRegistry wraps the memory pet repository with injectable
// status-write failures.
type failingRegistry struct {
	*petsmemory.Repository
	failCAS bool
}

func (f *failingRegistry) CompareAndSetStatus(ctx context.Context, id int64, expected, next petsdomain.Status) error {
	if f.failCAS {
		return errors.New("connection reset by peer")
	}
	return f.Repository.CompareAndSetStatus(ctx, id, expected, next)
}
