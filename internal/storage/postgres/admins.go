package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmckeffi/healthdesk/backend/internal/model/admin"
)

// AdminStore implements admin.Store on a pgx pool.
type AdminStore struct {
	pool *pgxpool.Pool
}

func NewAdminStore(pool *pgxpool.Pool) *AdminStore {
	return &AdminStore{pool: pool}
}

var _ admin.Store = (*AdminStore)(nil)

func (s *AdminStore) FindByEmail(ctx context.Context, email string) (admin.Admin, error) {
	var a admin.Admin
	err := s.pool.QueryRow(ctx,
		`SELECT id, admin_id, email, password_hash, created_at FROM admins WHERE lower(email) = lower($1) LIMIT 1`,
		email,
	).Scan(&a.ID, &a.AdminID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return admin.Admin{}, admin.ErrNotFound
	}
	if err != nil {
		return admin.Admin{}, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

func (s *AdminStore) AdminIDExists(ctx context.Context, adminID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM admins WHERE admin_id = $1)`, adminID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin id: %w", err)
	}
	return exists, nil
}

func (s *AdminStore) Create(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO admins (admin_id, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`,
		a.AdminID, a.Email, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
	if isUniqueViolation(err, adminEmailIndex) {
		return admin.Admin{}, admin.ErrDuplicateEmail
	}
	if err != nil {
		return admin.Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}
