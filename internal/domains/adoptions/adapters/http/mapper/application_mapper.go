package mapper

import (
	"time"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
)

// SubmitRequest is the inbound payload for opening an application.
type SubmitRequest struct {
	PetID   int64  `json:"petId" binding:"required"`
	Message string `json:"message,omitempty"`
}

// DecisionRequest carries optional admin notes on approve/reject.
type DecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// Application is the HTTP representation of an adoption application.
type Application struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"userId"`
	PetID       int64      `json:"petId"`
	Status      string     `json:"status"`
	Message     string     `json:"message,omitempty"`
	AdminNotes  string     `json:"adminNotes,omitempty"`
	AppliedDate time.Time  `json:"appliedDate"`
	DecidedDate *time.Time `json:"decidedDate,omitempty"`
}

// FromDomain maps an application aggregate to the transport shape.
func FromDomain(app *domain.Application) Application {
	if app == nil {
		return Application{}
	}
	return Application{
		ID:          app.ID.String(),
		UserID:      app.UserID,
		PetID:       app.PetID,
		Status:      string(app.Status),
		Message:     app.UserMessage,
		AdminNotes:  app.AdminNotes,
		AppliedDate: app.AppliedDate,
		DecidedDate: app.DecidedDate,
	}
}

// FromDomainList maps a slice of aggregates.
func FromDomainList(apps []*domain.Application) []Application {
	result := make([]Application, 0, len(apps))
	for _, app := range apps {
		result = append(result, FromDomain(app))
	}
	return result
}
