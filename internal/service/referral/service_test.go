package referral

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
)

func pro(id int64, name, specialty string, availability professional.Availability, status professional.Status) professional.Professional {
	return professional.Professional{ID: id, Name: name, Specialty: specialty, Availability: availability, Status: status}
}

func TestFindPrefersAvailableSpecialist(t *testing.T) {
	svc := NewService(professional.NewMemoryStore([]professional.Professional{
		pro(1, "Dr. OnCall", "Cardiologist", professional.OnCall, professional.Active),
		pro(2, "Dr. Available", "Cardiologist", professional.Available, professional.Active),
		pro(3, "Dr. ER", professional.EmergencySpecialty, professional.Available, professional.Active),
	}))

	got, err := svc.Find(context.Background(), "Cardiologist")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dr. Available", got.Name)
}

func TestFindFallsBackToEmergencyMedicine(t *testing.T) {
	svc := NewService(professional.NewMemoryStore([]professional.Professional{
		pro(1, "Dr. Busy", "Neurologist", professional.Busy, professional.Active),
		pro(2, "Dr. Inactive", "Neurologist", professional.Available, professional.Inactive),
		pro(3, "Dr. OffDuty ER", professional.EmergencySpecialty, professional.OffDuty, professional.Active),
		pro(4, "Dr. OnCall ER", professional.EmergencySpecialty, professional.OnCall, professional.Active),
	}))

	got, err := svc.Find(context.Background(), "Neurologist")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dr. OnCall ER", got.Name)
	assert.Equal(t, professional.EmergencySpecialty, got.Specialty)
}

func TestFindReturnsAnyEmergencyAvailability(t *testing.T) {
	svc := NewService(professional.NewMemoryStore([]professional.Professional{
		pro(1, "Dr. Busy ER", professional.EmergencySpecialty, professional.Busy, professional.Active),
	}))

	got, err := svc.Find(context.Background(), "Cardiologist")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, professional.Busy, got.Availability)
}

func TestFindNothing(t *testing.T) {
	svc := NewService(professional.NewMemoryStore([]professional.Professional{
		pro(1, "Dr. Inactive ER", professional.EmergencySpecialty, professional.Available, professional.Inactive),
	}))

	got, err := svc.Find(context.Background(), "Cardiologist")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = NewService(nil).Find(context.Background(), "Cardiologist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

type failingStore struct {
	professional.Store
}

func (failingStore) FindContact(context.Context, professional.ContactQuery) (*professional.Professional, error) {
	return nil, errors.New("connection refused")
}

func TestFindPropagatesStoreErrors(t *testing.T) {
	_, err := NewService(failingStore{}).Find(context.Background(), "Cardiologist")
	assert.ErrorContains(t, err, "connection refused")
}
