package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawhaven/adoption-api-server/internal/domains/pets/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/pets/ports"
)

func seedPet(t *testing.T, repo *Repository, id int64) {
	t.Helper()
	pet, err := domain.NewPet(id, "Rex", "dog", []string{"https://example.org/rex.jpg"})
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), pet)
	require.NoError(t, err)
}

func TestSave_PreservesWorkflowFields(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	seedPet(t, repo, 1)
	require.NoError(t, repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusPending))

	renamed, err := domain.NewPet(1, "Rexy", "dog", []string{"https://example.org/rex.jpg"})
	require.NoError(t, err)
	saved, err := repo.Save(ctx, renamed)
	require.NoError(t, err)
	require.Equal(t, "Rexy", saved.Pet.Name)
	require.Equal(t, domain.StatusPending, saved.Pet.Status)
}

func TestCompareAndSetStatus(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	seedPet(t, repo, 1)

	require.NoError(t, repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusPending))

	err := repo.CompareAndSetStatus(ctx, 1, domain.StatusAvailable, domain.StatusNotAvailable)
	require.ErrorIs(t, err, ports.ErrStatusConflict)

	err = repo.CompareAndSetStatus(ctx, 404, domain.StatusAvailable, domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMarkAdopted_Terminal(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	seedPet(t, repo, 1)

	require.NoError(t, repo.MarkAdopted(ctx, 1, 7, time.Now()))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAdopted, got.Pet.Status)
	require.NotNil(t, got.Pet.AdoptedBy)
	require.Equal(t, int64(7), *got.Pet.AdoptedBy)

	require.ErrorIs(t, repo.MarkAdopted(ctx, 1, 8, time.Now()), ports.ErrStatusConflict)
	require.ErrorIs(t, repo.CompareAndSetStatus(ctx, 1, domain.StatusPending, domain.StatusAvailable), ports.ErrStatusConflict)
}

func TestClearAdoption(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	seedPet(t, repo, 1)

	// Only an adopted pet can be cleared.
	require.ErrorIs(t, repo.ClearAdoption(ctx, 1), ports.ErrStatusConflict)

	require.NoError(t, repo.MarkAdopted(ctx, 1, 7, time.Now()))
	require.NoError(t, repo.ClearAdoption(ctx, 1))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAvailable, got.Pet.Status)
	require.Nil(t, got.Pet.AdoptedBy)
	require.Nil(t, got.Pet.AdoptionDate)

	require.ErrorIs(t, repo.ClearAdoption(ctx, 404), ports.ErrNotFound)
}
