// Package referral picks a medical professional to refer a patient to.
package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 5 * time.Second

// Service looks up referral contacts in the professional directory.
type Service struct {
	store   professional.Store
	timeout time.Duration
}

// NewService wraps store. A nil store yields a service that never finds anyone.
func NewService(store professional.Store) *Service {
	return &Service{store: store, timeout: DefaultTimeout}
}

// Find returns an on-shift active professional for specialty, falling back to
// any active emergency physician. It returns nil when neither exists.
func (s *Service) Find(ctx context.Context, specialty string) (*professional.Contact, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	match, err := s.store.FindContact(ctx, professional.ContactQuery{
		Specialty:    specialty,
		Availability: []professional.Availability{professional.Available, professional.OnCall},
	})
	if err != nil {
		return nil, fmt.Errorf("find %s professional: %w", specialty, err)
	}

	if match == nil {
		match, err = s.store.FindContact(ctx, professional.ContactQuery{Specialty: professional.EmergencySpecialty})
		if err != nil {
			return nil, fmt.Errorf("find emergency professional: %w", err)
		}
	}
	if match == nil {
		return nil, nil
	}

	contact := match.Contact()
	return &contact, nil
}
