//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	petspostgres "github.com/pawhaven/adoption-api-server/internal/domains/pets/adapters/persistence/postgres"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
	"github.com/pawhaven/adoption-api-server/internal/platform/migrations"
	platformpostgres "github.com/pawhaven/adoption-api-server/internal/platform/postgres"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("pets_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func savePet(t *testing.T, repo *petspostgres.Repository, id int64, name string) {
	t.Helper()
	pet, err := domain.NewPet(id, name, "dog", []string{"https://example.org/photo.jpg"})
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), pet)
	require.NoError(t, err)
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()

	pet, err := domain.NewPet(1, "Buddy", "dog", []string{"https://example.org/buddy.jpg"})
	require.NoError(t, err)
	require.NoError(t, pet.SetAge(24))
	pet.ReplaceTags([]domain.Tag{{ID: 1, Name: "friendly"}, {ID: 2, Name: "trained"}})

	projection, err := repo.Save(ctx, pet)
	require.NoError(t, err)
	assert.Equal(t, "Buddy", projection.Pet.Name)
	assert.False(t, projection.Metadata.CreatedAt.IsZero())
	assert.False(t, projection.Metadata.UpdatedAt.IsZero())

	retrieved, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Buddy", retrieved.Pet.Name)
	assert.Equal(t, domain.StatusAvailable, retrieved.Pet.Status)
	assert.Equal(t, int32(24), retrieved.Pet.AgeMonths)
	assert.Len(t, retrieved.Pet.Tags, 2)
}

func TestPostgresRepository_SavePreservesWorkflowColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()
	savePet(t, repo, 1, "Buddy")

	require.NoError(t, repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusPending))

	// A catalog save must not touch the workflow status.
	renamed, err := domain.NewPet(1, "Buddy II", "dog", []string{"https://example.org/buddy.jpg"})
	require.NoError(t, err)
	updated, err := repo.Save(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, "Buddy II", updated.Pet.Name)
	assert.Equal(t, domain.StatusPending, updated.Pet.Status)
}

func TestPostgresRepository_CompareAndSetStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()
	savePet(t, repo, 1, "Buddy")

	require.NoError(t, repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusPending))

	// A stale expectation loses.
	err := repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusNotAvailable)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)

	err = repo.CompareAndSetStatus(ctx, 404, domain.StatusAvailable, domain.StatusPending)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_MarkAdopted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()
	savePet(t, repo, 1, "Buddy")

	at := time.Now().UTC()
	require.NoError(t, repo.MarkAdopted(ctx, 1, 7, at))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdopted, got.Pet.Status)
	require.NotNil(t, got.Pet.AdoptedBy)
	assert.Equal(t, int64(7), *got.Pet.AdoptedBy)
	require.NotNil(t, got.Pet.AdoptionDate)

	// Adopted is terminal; a second adoption fails the guard.
	err = repo.MarkAdopted(ctx, 1, 8, time.Now().UTC())
	assert.ErrorIs(t, err, ports.ErrStatusConflict)

	// And the pending -> available revert cannot pull the pet back.
	err = repo.CompareAndSetStatus(ctx, 1, domain.StatusPending, domain.StatusAvailable)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)
}

func TestPostgresRepository_FindByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()
	savePet(t, repo, 1, "Available Dog")
	savePet(t, repo, 2, "Pending Cat")
	savePet(t, repo, 3, "Another Available")
	require.NoError(t, repo.CompareAndSetStatus(ctx, 2, domain.StatusAvailable, domain.StatusPending))

	available, err := repo.FindByStatus(ctx, []domain.Status{domain.StatusAvailable})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	pending, err := repo.FindByStatus(ctx, []domain.Status{domain.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPostgresRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := petspostgres.NewRepository(db)
	ctx := context.Background()
	savePet(t, repo, 1, "ToDelete")

	require.NoError(t, repo.Delete(ctx, 1))
	_, err := repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 1), ports.ErrNotFound)
}
