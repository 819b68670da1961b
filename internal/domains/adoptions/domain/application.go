package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status enumerates the decision lifecycle of an adoption application.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var (
	ErrInvalidUser    = errors.New("applicant user id must be greater than zero")
	ErrInvalidPet     = errors.New("pet id must be greater than zero")
	ErrInvalidStatus  = errors.New("application status is invalid")
	ErrAlreadyDecided = errors.New("application has already been decided")
	ErrDecisionState  = errors.New("decided date must be set exactly when the application is decided")
)

// Application models one user's request to adopt one pet. UserID and PetID are
// fixed at creation; the pair is unique across the ledger regardless of status.
type Application struct {
	ID          uuid.UUID
	UserID      int64
	PetID       int64
	Status      Status
	UserMessage string
	AdminNotes  string
	AppliedDate time.Time
	DecidedDate *time.Time
}

// NewApplication validates and constructs a Pending application.
func NewApplication(userID, petID int64, message string, appliedAt time.Time) (*Application, error) {
	app := &Application{
		ID:          uuid.New(),
		UserID:      userID,
		PetID:       petID,
		Status:      StatusPending,
		UserMessage: strings.TrimSpace(message),
		AppliedDate: appliedAt,
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}

// Approve moves a pending application to its terminal approved state.
func (a *Application) Approve(notes string, decidedAt time.Time) error {
	return a.decide(StatusApproved, notes, decidedAt)
}

// Reject moves a pending application to its terminal rejected state.
func (a *Application) Reject(notes string, decidedAt time.Time) error {
	return a.decide(StatusRejected, notes, decidedAt)
}

func (a *Application) decide(status Status, notes string, decidedAt time.Time) error {
	if a.Status != StatusPending {
		return ErrAlreadyDecided
	}
	a.Status = status
	a.AdminNotes = strings.TrimSpace(notes)
	decided := decidedAt
	a.DecidedDate = &decided
	return nil
}

// IsPending reports whether the application still awaits a decision.
func (a *Application) IsPending() bool {
	return a.Status == StatusPending
}

// OwnedBy reports whether the given user created the application.
func (a *Application) OwnedBy(userID int64) bool {
	return a.UserID == userID
}

// Validate enforces the aggregate invariants, including the rule that a
// decided date is present exactly when the status is no longer Pending.
func (a *Application) Validate() error {
	if a.UserID <= 0 {
		return ErrInvalidUser
	}
	if a.PetID <= 0 {
		return ErrInvalidPet
	}
	switch a.Status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return ErrInvalidStatus
	}
	decided := a.Status != StatusPending
	if decided != (a.DecidedDate != nil) {
		return ErrDecisionState
	}
	return nil
}
