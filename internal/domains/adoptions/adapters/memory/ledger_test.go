package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

func newApplication(t *testing.T, userID, petID int64) *domain.Application {
	t.Helper()
	app, err := domain.NewApplication(userID, petID, "message", time.Now())
	require.NoError(t, err)
	return app
}

func TestInsertUnique_EnforcesSlot(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	saved, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	_, err = ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.ErrorIs(t, err, ports.ErrDuplicateKey)

	// Different user or pet opens a different slot.
	_, err = ledger.InsertUnique(ctx, newApplication(t, 2, 1))
	require.NoError(t, err)
	_, err = ledger.InsertUnique(ctx, newApplication(t, 1, 2))
	require.NoError(t, err)
}

func TestInsertUnique_SlotSurvivesDecision(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	saved, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
	require.NoError(t, ledger.UpdateDecision(ctx, saved.ID, domain.StatusRejected, "", time.Now()))

	_, err = ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.ErrorIs(t, err, ports.ErrDuplicateKey)
}

func TestInsertUnique_Concurrent(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = ledger.InsertUnique(ctx, newApplication(t, 1, 1))
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ports.ErrDuplicateKey)
		}
	}
	require.Equal(t, 1, successes)
}

func TestUpdateDecision_ConditionalOnPending(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	saved, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)

	decidedAt := time.Now()
	require.NoError(t, ledger.UpdateDecision(ctx, saved.ID, domain.StatusApproved, "good home", decidedAt))

	got, err := ledger.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, got.Status)
	require.Equal(t, "good home", got.AdminNotes)
	require.NotNil(t, got.DecidedDate)

	err = ledger.UpdateDecision(ctx, saved.ID, domain.StatusRejected, "", time.Now())
	require.ErrorIs(t, err, ports.ErrAlreadyDecided)
}

func TestUpdateDecision_UnknownApplication(t *testing.T) {
	ledger := NewLedger()

	err := ledger.UpdateDecision(context.Background(), uuid.New(), domain.StatusApproved, "", time.Now())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateDecision_ConcurrentSingleWinner(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	saved, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			errs[slot] = ledger.UpdateDecision(ctx, saved.ID, domain.StatusApproved, "", time.Now())
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ports.ErrAlreadyDecided) {
			t.Fatalf("unexpected decision error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
}

func TestDeleteByID_FreesSlot(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	saved, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteByID(ctx, saved.ID))
	_, err = ledger.GetByID(ctx, saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, ledger.DeleteByID(ctx, saved.ID), ports.ErrNotFound)

	// The slot is free for a fresh submission.
	_, err = ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
}

func TestExistsPending(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	first, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
	second, err := ledger.InsertUnique(ctx, newApplication(t, 2, 1))
	require.NoError(t, err)

	remaining, err := ledger.ExistsPending(ctx, 1, first.ID)
	require.NoError(t, err)
	require.True(t, remaining)

	require.NoError(t, ledger.UpdateDecision(ctx, second.ID, domain.StatusRejected, "", time.Now()))
	remaining, err = ledger.ExistsPending(ctx, 1, first.ID)
	require.NoError(t, err)
	require.False(t, remaining)
}

func TestListByUser(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	_, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
	_, err = ledger.InsertUnique(ctx, newApplication(t, 1, 2))
	require.NoError(t, err)
	_, err = ledger.InsertUnique(ctx, newApplication(t, 2, 3))
	require.NoError(t, err)

	apps, err := ledger.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	all, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestCountApproved(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	first, err := ledger.InsertUnique(ctx, newApplication(t, 1, 1))
	require.NoError(t, err)
	_, err = ledger.InsertUnique(ctx, newApplication(t, 2, 1))
	require.NoError(t, err)

	count, err := ledger.CountApproved(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, ledger.UpdateDecision(ctx, first.ID, domain.StatusApproved, "", time.Now()))
	count, err = ledger.CountApproved(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
