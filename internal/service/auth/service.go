// Package auth implements admin login, logout and session checks.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/fmckeffi/healthdesk/backend/internal/model/admin"
	"github.com/fmckeffi/healthdesk/backend/internal/service/session"
)

// ErrInvalidCredentials wraps every rejected login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Login rejection codes reported to the admin console.
const (
	CodeEmptyParam            = "empty-param"
	CodeInvalidEmailFormat    = "invalid-email-format"
	CodeInvalidPasswordFormat = "invalid-password-format"
	CodeIncorrectEmail        = "incorrect-email"
	CodeIncorrectPassword     = "incorrect-password"
)

// MinPasswordLength is the shortest password accepted at login and at account creation.
const MinPasswordLength = 6

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 12 * time.Hour

// LoginError describes why a login attempt was refused.
type LoginError struct {
	Code    string
	Message string
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return ErrInvalidCredentials }

// Service authenticates admins against an admin.Store and records sessions.
type Service struct {
	admins   admin.Store
	sessions session.Store
	ttl      time.Duration
	now      func() time.Time
	validate *validator.Validate
}

// NewService wires the admin and session stores. A non-positive ttl falls back to DefaultTTL.
func NewService(admins admin.Store, sessions session.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		admins:   admins,
		sessions: sessions,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		validate: validator.New(),
	}
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Session{}, &LoginError{Code: CodeEmptyParam, Message: "Email and password are required"}
	}
	if s.validate.Var(email, "email") != nil {
		return session.Session{}, &LoginError{Code: CodeInvalidEmailFormat, Message: "Invalid email format"}
	}
	if len(password) < MinPasswordLength {
		return session.Session{}, &LoginError{Code: CodeInvalidPasswordFormat, Message: "Password must be at least 6 characters long"}
	}

	account, err := s.admins.FindByEmail(ctx, email)
	if errors.Is(err, admin.ErrNotFound) {
		return session.Session{}, &LoginError{Code: CodeIncorrectEmail, Message: "Incorrect email"}
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("lookup admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return session.Session{}, &LoginError{Code: CodeIncorrectPassword, Message: "Incorrect password"}
	}

	now := s.now()
	sess := session.Session{
		Token:     session.NewToken(),
		AdminID:   account.AdminID,
		Email:     account.Email,
		AdminDBID: account.ID,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}

	log.Info().Str("component", "auth").Str("admin_id", account.AdminID).Msg("admin logged in")
	return sess, nil
}

// Logout destroys the session behind token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Check returns the live session behind token, or session.ErrNotFound.
func (s *Service) Check(ctx context.Context, token string) (session.Session, error) {
	if token == "" {
		return session.Session{}, session.ErrNotFound
	}
	return s.sessions.Get(ctx, token)
}

// CreateAdmin registers a new admin with a generated public id and a bcrypt hash.
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (admin.Admin, error) {
	email = strings.TrimSpace(email)
	if s.validate.Var(email, "required,email") != nil {
		return admin.Admin{}, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < MinPasswordLength {
		return admin.Admin{}, fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return admin.Admin{}, err
	}
	id, err := admin.GenerateID(ctx, s.admins, 5)
	if err != nil {
		return admin.Admin{}, err
	}

	return s.admins.Create(ctx, admin.Admin{
		AdminID:      id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
