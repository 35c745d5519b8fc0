package professional

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store exposes the medical directory to the admin handlers and the referral lookup.
type Store interface {
	List(ctx context.Context) ([]Professional, error)
	Get(ctx context.Context, id int64) (Professional, error)
	Create(ctx context.Context, in Input) (Professional, error)
	Update(ctx context.Context, id int64, in Input) (Professional, error)
	Delete(ctx context.Context, id int64) (Professional, error)
	// FindContact returns the best match for q, or nil when nothing matches.
	FindContact(ctx context.Context, q ContactQuery) (*Professional, error)
}

// MemoryStore implements Store in process memory, for development without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []Professional
	nextID int64
	now    func() time.Time
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Professional) *MemoryStore {
	s := &MemoryStore{
		items: append([]Professional(nil), items...),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, item := range s.items {
		if item.ID > s.nextID {
			s.nextID = item.ID
		}
	}
	return s
}

// List returns every entry, newest first.
func (s *MemoryStore) List(_ context.Context) ([]Professional, error) {
	s.mu.RLock()
	items := make([]Professional, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Get looks up an entry by identifier.
func (s *MemoryStore) Get(_ context.Context, id int64) (Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return Professional{}, ErrNotFound
}

// Create appends a new entry. Availability and status default to Available and active.
func (s *MemoryStore) Create(_ context.Context, in Input) (Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(in.Email, 0) {
		return Professional{}, ErrDuplicateEmail
	}

	now := s.now()
	s.nextID++
	item := Professional{
		ID:           s.nextID,
		Name:         in.Name,
		Specialty:    in.Specialty,
		Phone:        in.Phone,
		Email:        in.Email,
		Department:   in.Department,
		Availability: in.Availability,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if item.Availability == "" {
		item.Availability = Available
	}
	if item.Status == "" {
		item.Status = Active
	}

	s.items = append(s.items, item)
	return item, nil
}

// Update overwrites the editable fields of an entry. Empty availability or
// status keep their current value.
func (s *MemoryStore) Update(_ context.Context, id int64, in Input) (Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Professional{}, ErrNotFound
	}
	if s.emailTaken(in.Email, id) {
		return Professional{}, ErrDuplicateEmail
	}

	item := &s.items[i]
	item.Name = in.Name
	item.Specialty = in.Specialty
	item.Phone = in.Phone
	item.Email = in.Email
	item.Department = in.Department
	if in.Availability != "" {
		item.Availability = in.Availability
	}
	if in.Status != "" {
		item.Status = in.Status
	}
	item.UpdatedAt = s.now()
	return *item, nil
}

// Delete removes an entry and returns it.
func (s *MemoryStore) Delete(_ context.Context, id int64) (Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Professional{}, ErrNotFound
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, nil
}

// FindContact picks the matching entry with the most preferred availability.
func (s *MemoryStore) FindContact(_ context.Context, q ContactQuery) (*Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *Professional
	for i := range s.items {
		item := s.items[i]
		if !q.Accepts(item) {
			continue
		}
		if best == nil || item.Availability.preference() < best.Availability.preference() {
			found := item
			best = &found
		}
	}
	return best, nil
}

func (s *MemoryStore) indexOf(id int64) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) emailTaken(email string, exceptID int64) bool {
	for _, item := range s.items {
		if item.ID != exceptID && strings.EqualFold(item.Email, email) {
			return true
		}
	}
	return false
}
