package types

import (
	"github.com/google/uuid"

	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

// SubmitInput asks to open an adoption application for a pet.
type SubmitInput struct {
	Principal auth.Principal
	PetID     int64
	Message   string
}

// DecisionInput approves or rejects an application on behalf of an admin.
type DecisionInput struct {
	Principal     auth.Principal
	ApplicationID uuid.UUID
	Notes         string
}

// WithdrawInput deletes an application on behalf of its owner.
type WithdrawInput struct {
	Principal     auth.Principal
	ApplicationID uuid.UUID
}

// GetInput loads a single application for its owner or an admin.
type GetInput struct {
	Principal     auth.Principal
	ApplicationID uuid.UUID
}

// ListOwnInput lists the caller's applications.
type ListOwnInput struct {
	Principal auth.Principal
}

// ListAllInput lists every application for an admin.
type ListAllInput struct {
	Principal auth.Principal
}
