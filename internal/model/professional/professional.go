package professional

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("medical professional not found")
	ErrDuplicateEmail = errors.New("email address already exists")
)

// Availability is the on-shift state of a professional.
type Availability string

const (
	Available Availability = "Available"
	Busy      Availability = "Busy"
	OnCall    Availability = "On Call"
	OffDuty   Availability = "Off Duty"
)

// Valid reports whether a is a known availability state.
func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, OnCall, OffDuty:
		return true
	default:
		return false
	}
}

// preference orders availability for referrals: Available, then On Call, then the rest.
func (a Availability) preference() int {
	switch a {
	case Available:
		return 1
	case OnCall:
		return 2
	default:
		return 3
	}
}

// Status tells whether a directory entry may be used for referrals.
type Status string

const (
	Active   Status = "active"
	Inactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == Active || s == Inactive
}

// EmergencySpecialty is the fallback specialty for referrals.
const EmergencySpecialty = "Emergency Medicine"

// Professional is one entry of the medical directory.
type Professional struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Specialty    string       `json:"specialty"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Department   string       `json:"department"`
	Availability Availability `json:"availability"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Contact is the referral view of a professional shared with chat users.
type Contact struct {
	Name         string       `json:"name"`
	Specialty    string       `json:"specialty"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Department   string       `json:"department"`
	Availability Availability `json:"availability"`
}

// Contact projects p onto its referral view.
func (p Professional) Contact() Contact {
	return Contact{
		Name:         p.Name,
		Specialty:    p.Specialty,
		Phone:        p.Phone,
		Email:        p.Email,
		Department:   p.Department,
		Availability: p.Availability,
	}
}

// ContactQuery selects one active professional for a referral. An empty
// Availability list accepts every state.
type ContactQuery struct {
	Specialty    string
	Availability []Availability
}

// Accepts reports whether p satisfies the query.
func (q ContactQuery) Accepts(p Professional) bool {
	if p.Status != Active || p.Specialty != q.Specialty {
		return false
	}
	if len(q.Availability) == 0 {
		return true
	}
	for _, a := range q.Availability {
		if p.Availability == a {
			return true
		}
	}
	return false
}
