package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
)

const professionalColumns = `id, name, specialty, phone, email, department, availability, status, created_at, updated_at`

// availabilityRank mirrors the referral preference: Available, On Call, then the rest.
const availabilityRank = `CASE availability WHEN 'Available' THEN 1 WHEN 'On Call' THEN 2 ELSE 3 END`

// ProfessionalStore implements professional.Store on a pgx pool.
type ProfessionalStore struct {
	pool *pgxpool.Pool
}

// NewProfessionalStore wraps pool.
func NewProfessionalStore(pool *pgxpool.Pool) *ProfessionalStore {
	return &ProfessionalStore{pool: pool}
}

var _ professional.Store = (*ProfessionalStore)(nil)

func (s *ProfessionalStore) List(ctx context.Context) ([]professional.Professional, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+professionalColumns+` FROM medical_professionals ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	items := make([]professional.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	return items, nil
}

func (s *ProfessionalStore) Get(ctx context.Context, id int64) (professional.Professional, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+professionalColumns+` FROM medical_professionals WHERE id = $1`, id)
	p, err := scanProfessional(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return professional.Professional{}, professional.ErrNotFound
	}
	if err != nil {
		return professional.Professional{}, fmt.Errorf("get professional %d: %w", id, err)
	}
	return p, nil
}

func (s *ProfessionalStore) Create(ctx context.Context, in professional.Input) (professional.Professional, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO medical_professionals (name, specialty, phone, email, department, availability, status)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'Available'), COALESCE(NULLIF($7, ''), 'active'))
		RETURNING `+professionalColumns,
		in.Name, in.Specialty, in.Phone, in.Email, in.Department, string(in.Availability), string(in.Status))

	p, err := scanProfessional(row)
	if isUniqueViolation(err, professionalEmailIndex) {
		return professional.Professional{}, professional.ErrDuplicateEmail
	}
	if err != nil {
		return professional.Professional{}, fmt.Errorf("create professional: %w", err)
	}
	return p, nil
}

func (s *ProfessionalStore) Update(ctx context.Context, id int64, in professional.Input) (professional.Professional, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE medical_professionals
		SET name = $2, specialty = $3, phone = $4, email = $5, department = $6,
		    availability = COALESCE(NULLIF($7, ''), availability),
		    status = COALESCE(NULLIF($8, ''), status),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+professionalColumns,
		id, in.Name, in.Specialty, in.Phone, in.Email, in.Department, string(in.Availability), string(in.Status))

	p, err := scanProfessional(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return professional.Professional{}, professional.ErrNotFound
	case isUniqueViolation(err, professionalEmailIndex):
		return professional.Professional{}, professional.ErrDuplicateEmail
	case err != nil:
		return professional.Professional{}, fmt.Errorf("update professional %d: %w", id, err)
	}
	return p, nil
}

func (s *ProfessionalStore) Delete(ctx context.Context, id int64) (professional.Professional, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM medical_professionals WHERE id = $1 RETURNING `+professionalColumns, id)
	p, err := scanProfessional(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return professional.Professional{}, professional.ErrNotFound
	}
	if err != nil {
		return professional.Professional{}, fmt.Errorf("delete professional %d: %w", id, err)
	}
	return p, nil
}

func (s *ProfessionalStore) FindContact(ctx context.Context, q professional.ContactQuery) (*professional.Professional, error) {
	args := []any{q.Specialty}
	query := `SELECT ` + professionalColumns + ` FROM medical_professionals
		WHERE specialty = $1 AND status = 'active'`
	if len(q.Availability) > 0 {
		states := make([]string, len(q.Availability))
		for i, a := range q.Availability {
			states[i] = string(a)
		}
		query += ` AND availability = ANY($2)`
		args = append(args, states)
	}
	query += ` ORDER BY ` + availabilityRank + `, id LIMIT 1`

	p, err := scanProfessional(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s contact: %w", q.Specialty, err)
	}
	return &p, nil
}

func scanProfessional(row pgx.Row) (professional.Professional, error) {
	var (
		p            professional.Professional
		availability string
		status       string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Specialty, &p.Phone, &p.Email, &p.Department,
		&availability, &status, &p.CreatedAt, &p.UpdatedAt)
	p.Availability = professional.Availability(availability)
	p.Status = professional.Status(status)
	return p, err
}
