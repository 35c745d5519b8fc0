package admin

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound       = errors.New("admin not found")
	ErrDuplicateEmail = errors.New("admin email already exists")
)

// IDPrefix is prepended to every generated public admin identifier.
const IDPrefix = "FMC-AI-"

// Admin is an account allowed to manage the medical directory.
type Admin struct {
	ID           int64     `json:"id"`
	AdminID      string    `json:"admin_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists admin accounts.
type Store interface {
	FindByEmail(ctx context.Context, email string) (Admin, error)
	AdminIDExists(ctx context.Context, adminID string) (bool, error)
	Create(ctx context.Context, a Admin) (Admin, error)
}

// GenerateID returns an unused public identifier of the form FMC-AI-<digits>.
// Each collision retries with one more digit.
func GenerateID(ctx context.Context, store Store, digits int) (string, error) {
	if digits <= 0 {
		digits = 5
	}
	for attempt := 0; attempt < 8; attempt++ {
		id := IDPrefix + randomDigits(digits+attempt)
		exists, err := store.AdminIDExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check admin id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("admin id space exhausted")
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	// no leading zero, so the digit count is stable
	b.WriteByte(byte('1' + rand.IntN(9)))
	for i := 1; i < n; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	admins []Admin
	nextID int64
}

// NewMemoryStore returns a MemoryStore preloaded with admins.
func NewMemoryStore(admins ...Admin) *MemoryStore {
	s := &MemoryStore{admins: append([]Admin(nil), admins...)}
	for _, a := range s.admins {
		if a.ID > s.nextID {
			s.nextID = a.ID
		}
	}
	return s
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (s *MemoryStore) AdminIDExists(_ context.Context, adminID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.AdminID == adminID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Create(_ context.Context, a Admin) (Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return Admin{}, ErrDuplicateEmail
		}
	}
	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.admins = append(s.admins, a)
	return a, nil
}
