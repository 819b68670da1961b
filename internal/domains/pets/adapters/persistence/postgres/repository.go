package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/pawhaven/adoption-api-server/internal/domains/pets/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// petRecord maps the pet aggregate to a relational table.
type petRecord struct {
	ID           int64          `gorm:"primaryKey;column:id"`
	Name         string         `gorm:"column:name"`
	Species      string         `gorm:"column:species;type:varchar(64)"`
	Breed        string         `gorm:"column:breed"`
	AgeMonths    int32          `gorm:"column:age_months"`
	Description  string         `gorm:"column:description"`
	PhotoURLs    pq.StringArray `gorm:"column:photo_urls;type:text[]"`
	TagIDs       pq.Int64Array  `gorm:"column:tag_ids;type:bigint[]"`
	TagNames     pq.StringArray `gorm:"column:tag_names;type:text[]"`
	Status       string         `gorm:"column:status;type:varchar(32);index"`
	AdoptedBy    *int64         `gorm:"column:adopted_by"`
	AdoptionDate *time.Time     `gorm:"column:adoption_date"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

// catalogColumns are the only columns Save may rewrite on conflict. Workflow
// columns move through the conditional operations instead.
var catalogColumns = []string{
	"name", "species", "breed", "age_months", "description",
	"photo_urls", "tag_ids", "tag_names", "updated_at",
}

// Save inserts a pet or updates its catalog fields.
func (r *Repository) Save(ctx context.Context, pet *domain.Pet) (*types.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	record := toRecord(pet)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(catalogColumns),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a pet by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*types.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record petRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Delete removes a pet by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&petRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// FindByStatus returns pets in any of the given statuses.
func (r *Repository) FindByStatus(ctx context.Context, statuses []domain.Status) ([]*types.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	var records []petRecord
	if err := r.db.WithContext(ctx).Where("status IN ?", values).Find(&records).Error; err != nil {
		return nil, err
	}
	return toProjectionList(records), nil
}

// List returns all pets.
func (r *Repository) List(ctx context.Context) ([]*types.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []petRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	return toProjectionList(records), nil
}

// CompareAndSetStatus performs the conditional status transition as a single
// guarded UPDATE; zero affected rows means the expectation no longer holds.
func (r *Repository) CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&petRecord{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(map[string]any{
			"status":     string(next),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// MarkAdopted commits the adopted state, guarded against double adoption.
func (r *Repository) MarkAdopted(ctx context.Context, id int64, adopterID int64, at time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&petRecord{}).
		Where("id = ? AND status <> ?", id, string(domain.StatusAdopted)).
		Updates(map[string]any{
			"status":        string(domain.StatusAdopted),
			"adopted_by":    adopterID,
			"adoption_date": at,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// ClearAdoption reverts an adopted pet to available, clearing the adoption
// fields. Used for operator remediation only.
func (r *Repository) ClearAdoption(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&petRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusAdopted)).
		Updates(map[string]any{
			"status":        string(domain.StatusAvailable),
			"adopted_by":    nil,
			"adoption_date": nil,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// classifyMiss distinguishes a missing row from a failed status guard.
func (r *Repository) classifyMiss(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&petRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrStatusConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
	}
	return nil
}

func toRecord(pet *domain.Pet) petRecord {
	rec := petRecord{
		ID:           pet.ID,
		Name:         pet.Name,
		Species:      pet.Species,
		Breed:        pet.Breed,
		AgeMonths:    pet.AgeMonths,
		Description:  pet.Description,
		PhotoURLs:    append(pq.StringArray{}, pet.PhotoURLs...),
		Status:       string(pet.Status),
		AdoptedBy:    pet.AdoptedBy,
		AdoptionDate: pet.AdoptionDate,
	}
	for _, tag := range pet.Tags {
		rec.TagIDs = append(rec.TagIDs, tag.ID)
		rec.TagNames = append(rec.TagNames, tag.Name)
	}
	return rec
}

func (r petRecord) toProjection() *types.PetProjection {
	pet := &domain.Pet{
		ID:           r.ID,
		Name:         r.Name,
		Species:      r.Species,
		Breed:        r.Breed,
		AgeMonths:    r.AgeMonths,
		Description:  r.Description,
		PhotoURLs:    append([]string{}, r.PhotoURLs...),
		Status:       domain.Status(r.Status),
		AdoptedBy:    r.AdoptedBy,
		AdoptionDate: r.AdoptionDate,
	}
	for i, name := range r.TagNames {
		tag := domain.Tag{Name: name}
		if i < len(r.TagIDs) {
			tag.ID = r.TagIDs[i]
		}
		pet.Tags = append(pet.Tags, tag)
	}
	return types.NewPetProjection(pet, r.CreatedAt, r.UpdatedAt)
}

func toProjectionList(records []petRecord) []*types.PetProjection {
	result := make([]*types.PetProjection, 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result
}
