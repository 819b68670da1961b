package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

var _ ports.Ledger = (*Ledger)(nil)

// Ledger persists adoption applications in PostgreSQL using GORM.
type Ledger struct {
	db *gorm.DB
}

// NewLedger wires a PostgreSQL-backed ledger. Caller manages DB lifecycle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// applicationRecord maps the application aggregate to a relational table. The
// composite unique index on (user_id, pet_id) is the durable arbiter for
// duplicate submissions.
type applicationRecord struct {
	ID          string     `gorm:"primaryKey;column:id;type:uuid"`
	UserID      int64      `gorm:"column:user_id;uniqueIndex:idx_applications_user_pet;index"`
	PetID       int64      `gorm:"column:pet_id;uniqueIndex:idx_applications_user_pet;index:idx_applications_pet_status"`
	Status      string     `gorm:"column:status;type:varchar(16);index:idx_applications_pet_status"`
	UserMessage string     `gorm:"column:user_message"`
	AdminNotes  string     `gorm:"column:admin_notes"`
	AppliedDate time.Time  `gorm:"column:applied_date"`
	DecidedDate *time.Time `gorm:"column:decided_date"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (applicationRecord) TableName() string { return "adoption_applications" }

// InsertUnique stores a new application. The unique index, not a prior read,
// decides the race: a violation surfaces as ErrDuplicateKey.
func (l *Ledger) InsertUnique(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.New("application is nil")
	}
	record := toRecord(app)
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateKey
		}
		return nil, err
	}
	return record.toDomain()
}

// GetByID fetches an application by identifier.
func (l *Ledger) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var record applicationRecord
	if err := l.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// UpdateDecision writes the terminal decision, conditional on the stored
// status still being Pending.
func (l *Ledger) UpdateDecision(ctx context.Context, id uuid.UUID, status domain.Status, notes string, decidedAt time.Time) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	result := l.db.WithContext(ctx).
		Model(&applicationRecord{}).
		Where("id = ? AND status = ?", id.String(), string(domain.StatusPending)).
		Updates(map[string]any{
			"status":       string(status),
			"admin_notes":  notes,
			"decided_date": decidedAt,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := l.db.WithContext(ctx).Model(&applicationRecord{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ports.ErrNotFound
		}
		return ports.ErrAlreadyDecided
	}
	return nil
}

// DeleteByID removes an application.
func (l *Ledger) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	result := l.db.WithContext(ctx).Delete(&applicationRecord{}, "id = ?", id.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ExistsPending reports whether another Pending application targets the pet.
func (l *Ledger) ExistsPending(ctx context.Context, petID int64, excluding uuid.UUID) (bool, error) {
	if err := l.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	err := l.db.WithContext(ctx).
		Model(&applicationRecord{}).
		Where("pet_id = ? AND status = ? AND id <> ?", petID, string(domain.StatusPending), excluding.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser returns a user's applications, newest first.
func (l *Ledger) ListByUser(ctx context.Context, userID int64) ([]*domain.Application, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var records []applicationRecord
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("applied_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records)
}

// ListAll returns every application, newest first.
func (l *Ledger) ListAll(ctx context.Context) ([]*domain.Application, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var records []applicationRecord
	if err := l.db.WithContext(ctx).Order("applied_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records)
}

// CountApproved counts approved applications for a pet.
func (l *Ledger) CountApproved(ctx context.Context, petID int64) (int64, error) {
	if err := l.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := l.db.WithContext(ctx).
		Model(&applicationRecord{}).
		Where("pet_id = ? AND status = ?", petID, string(domain.StatusApproved)).
		Count(&count).Error
	return count, err
}

func (l *Ledger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres adoption ledger not configured")
	}
	return nil
}

func toRecord(app *domain.Application) applicationRecord {
	return applicationRecord{
		ID:          app.ID.String(),
		UserID:      app.UserID,
		PetID:       app.PetID,
		Status:      string(app.Status),
		UserMessage: app.UserMessage,
		AdminNotes:  app.AdminNotes,
		AppliedDate: app.AppliedDate,
		DecidedDate: app.DecidedDate,
	}
}

func (r applicationRecord) toDomain() (*domain.Application, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Application{
		ID:          id,
		UserID:      r.UserID,
		PetID:       r.PetID,
		Status:      domain.Status(r.Status),
		UserMessage: r.UserMessage,
		AdminNotes:  r.AdminNotes,
		AppliedDate: r.AppliedDate,
		DecidedDate: r.DecidedDate,
	}, nil
}

func toDomainList(records []applicationRecord) ([]*domain.Application, error) {
	result := make([]*domain.Application, 0, len(records))
	for i := range records {
		app, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, nil
}
