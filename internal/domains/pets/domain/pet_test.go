package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestPet(t *testing.T) *Pet {
	t.Helper()
	pet, err := NewPet(1, "Rex", "dog", []string{"https://example.org/rex.jpg"})
	require.NoError(t, err)
	return pet
}

func TestNewPet_StartsAvailable(t *testing.T) {
	pet := newTestPet(t)
	require.Equal(t, StatusAvailable, pet.Status)
	require.Nil(t, pet.AdoptedBy)
	require.Nil(t, pet.AdoptionDate)
}

func TestNewPet_RequiredFields(t *testing.T) {
	_, err := NewPet(1, "  ", "dog", []string{"x"})
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewPet(1, "Rex", "", []string{"x"})
	require.ErrorIs(t, err, ErrEmptySpecies)

	_, err = NewPet(1, "Rex", "dog", nil)
	require.ErrorIs(t, err, ErrEmptyPhotos)
}

func TestChangeAvailability_CatalogStatesOnly(t *testing.T) {
	pet := newTestPet(t)

	require.NoError(t, pet.ChangeAvailability(StatusFostered))
	require.Equal(t, StatusFostered, pet.Status)

	require.NoError(t, pet.ChangeAvailability(StatusAvailable))

	// Workflow states cannot be entered through the catalog surface.
	require.ErrorIs(t, pet.ChangeAvailability(StatusPending), ErrInvalidStatus)
	require.ErrorIs(t, pet.ChangeAvailability(StatusAdopted), ErrInvalidStatus)
}

func TestChangeAvailability_AdoptedIsTerminal(t *testing.T) {
	pet := newTestPet(t)
	require.NoError(t, pet.MarkAdopted(7, time.Now()))

	require.ErrorIs(t, pet.ChangeAvailability(StatusAvailable), ErrAlreadyAdopted)
}

func TestMarkAdopted_RecordsAdopter(t *testing.T) {
	pet := newTestPet(t)
	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	require.NoError(t, pet.MarkAdopted(7, at))
	require.Equal(t, StatusAdopted, pet.Status)
	require.NotNil(t, pet.AdoptedBy)
	require.Equal(t, int64(7), *pet.AdoptedBy)
	require.NotNil(t, pet.AdoptionDate)
	require.Equal(t, at, *pet.AdoptionDate)

	require.ErrorIs(t, pet.MarkAdopted(8, time.Now()), ErrAlreadyAdopted)
}

func TestValidate_AdoptionFieldsMatchStatus(t *testing.T) {
	pet := newTestPet(t)
	require.NoError(t, pet.Validate())

	// Adopted status requires both adopter and adoption date.
	pet.Status = StatusAdopted
	require.ErrorIs(t, pet.Validate(), ErrAdoptionFields)

	adopter := int64(7)
	at := time.Now()
	pet.AdoptedBy = &adopter
	pet.AdoptionDate = &at
	require.NoError(t, pet.Validate())

	pet.Status = StatusAvailable
	require.ErrorIs(t, pet.Validate(), ErrAdoptionFields)
}

func TestSetAge(t *testing.T) {
	pet := newTestPet(t)
	require.NoError(t, pet.SetAge(18))
	require.ErrorIs(t, pet.SetAge(-1), ErrInvalidAge)
}
