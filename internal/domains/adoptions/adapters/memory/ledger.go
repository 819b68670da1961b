package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

var _ ports.Ledger = (*Ledger)(nil)

// Ledger is an in-memory application persistence adapter. A single mutex
// guards both the record map and the (user, pet) slot index, so InsertUnique
// has the same all-or-nothing uniqueness semantics as the SQL constraint.
type Ledger struct {
	mu    sync.RWMutex
	apps  map[uuid.UUID]*domain.Application
	slots map[string]uuid.UUID
}

func NewLedger() *Ledger {
	return &Ledger{
		apps:  map[uuid.UUID]*domain.Application{},
		slots: map[string]uuid.UUID{},
	}
}

func slotKey(userID, petID int64) string {
	return fmt.Sprintf("%d/%d", userID, petID)
}

func (l *Ledger) InsertUnique(_ context.Context, app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, errors.New("application is nil")
	}
	clone := *app
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := slotKey(clone.UserID, clone.PetID)
	if _, taken := l.slots[key]; taken {
		return nil, ports.ErrDuplicateKey
	}
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	l.slots[key] = clone.ID
	l.apps[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (l *Ledger) GetByID(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	app, ok := l.apps[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *app
	return &clone, nil
}

func (l *Ledger) UpdateDecision(_ context.Context, id uuid.UUID, status domain.Status, notes string, decidedAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	app, ok := l.apps[id]
	if !ok {
		return ports.ErrNotFound
	}
	if !app.IsPending() {
		return ports.ErrAlreadyDecided
	}
	switch status {
	case domain.StatusApproved:
		return app.Approve(notes, decidedAt)
	case domain.StatusRejected:
		return app.Reject(notes, decidedAt)
	default:
		return domain.ErrInvalidStatus
	}
}

func (l *Ledger) DeleteByID(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	app, ok := l.apps[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(l.slots, slotKey(app.UserID, app.PetID))
	delete(l.apps, id)
	return nil
}

func (l *Ledger) ExistsPending(_ context.Context, petID int64, excluding uuid.UUID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for id, app := range l.apps {
		if id == excluding {
			continue
		}
		if app.PetID == petID && app.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) ListByUser(_ context.Context, userID int64) ([]*domain.Application, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var result []*domain.Application
	for _, app := range l.apps {
		if app.UserID == userID {
			clone := *app
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (l *Ledger) ListAll(_ context.Context) ([]*domain.Application, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]*domain.Application, 0, len(l.apps))
	for _, app := range l.apps {
		clone := *app
		result = append(result, &clone)
	}
	return result, nil
}

func (l *Ledger) CountApproved(_ context.Context, petID int64) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var count int64
	for _, app := range l.apps {
		if app.PetID == petID && app.Status == domain.StatusApproved {
			count++
		}
	}
	return count, nil
}
