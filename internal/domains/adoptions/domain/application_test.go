package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewApplication_StartsPending(t *testing.T) {
	appliedAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	app, err := NewApplication(7, 3, "  we walk twice a day  ", appliedAt)

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, app.ID)
	require.Equal(t, StatusPending, app.Status)
	require.Equal(t, "we walk twice a day", app.UserMessage)
	require.Equal(t, appliedAt, app.AppliedDate)
	require.Nil(t, app.DecidedDate)
}

func TestNewApplication_InvalidIdentifiers(t *testing.T) {
	now := time.Now()

	_, err := NewApplication(0, 3, "", now)
	require.ErrorIs(t, err, ErrInvalidUser)

	_, err = NewApplication(7, -1, "", now)
	require.ErrorIs(t, err, ErrInvalidPet)
}

func TestApprove_SetsDecision(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)

	decidedAt := time.Now()
	require.NoError(t, app.Approve("home visit passed", decidedAt))
	require.Equal(t, StatusApproved, app.Status)
	require.Equal(t, "home visit passed", app.AdminNotes)
	require.NotNil(t, app.DecidedDate)
	require.Equal(t, decidedAt, *app.DecidedDate)
}

func TestReject_SetsDecision(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)

	require.NoError(t, app.Reject("apartment too small", time.Now()))
	require.Equal(t, StatusRejected, app.Status)
	require.False(t, app.IsPending())
}

func TestDecide_TerminalStatesAreFinal(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, app.Approve("", time.Now()))

	require.ErrorIs(t, app.Approve("", time.Now()), ErrAlreadyDecided)
	require.ErrorIs(t, app.Reject("", time.Now()), ErrAlreadyDecided)
}

func TestOwnedBy(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)

	require.True(t, app.OwnedBy(7))
	require.False(t, app.OwnedBy(8))
}

func TestValidate_DecidedDateMatchesStatus(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)

	// A decided status without a decided date is inconsistent.
	app.Status = StatusApproved
	require.ErrorIs(t, app.Validate(), ErrDecisionState)

	decidedAt := time.Now()
	app.DecidedDate = &decidedAt
	require.NoError(t, app.Validate())

	// And so is a pending application carrying a decided date.
	app.Status = StatusPending
	require.ErrorIs(t, app.Validate(), ErrDecisionState)
}

func TestValidate_RejectsUnknownStatus(t *testing.T) {
	app, err := NewApplication(7, 3, "", time.Now())
	require.NoError(t, err)

	app.Status = Status("Escalated")
	require.ErrorIs(t, app.Validate(), ErrInvalidStatus)
}
