package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carevault/carevault/internal/platform/auth"
	"github.com/carevault/carevault/internal/platform/db"
)

// DataRemover deletes all rows a domain holds for a user. Account
// deletion runs every remover plus the user row in one transaction.
type DataRemover interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo     Repository
	jwtCfg   auth.JWTConfig
	pool     *pgxpool.Pool
	removers []DataRemover
}

func NewService(repo Repository, jwtCfg auth.JWTConfig, pool *pgxpool.Pool, removers ...DataRemover) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg, pool: pool, removers: removers}
}

// Register creates an account and returns the user plus a session token.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*User, string, error) {
	if firstName == "" {
		return nil, "", fmt.Errorf("first_name is required")
	}
	if email == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := auth.IssueToken(s.jwtCfg, u.ID.String(), u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user plus a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.jwtCfg, u.ID.String(), u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// DisplayName returns the user's name for public rendering.
func (s *Service) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.DisplayName(), nil
}

// DeleteAccount removes the account and everything it owns: medical
// info, family members, reports and the emergency token. All deletes
// share one transaction so a failure leaves the account intact.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if s.pool == nil {
		return s.deleteAll(ctx, id)
	}
	return db.WithTx(ctx, s.pool, func(ctx context.Context) error {
		return s.deleteAll(ctx, id)
	})
}

func (s *Service) deleteAll(ctx context.Context, id uuid.UUID) error {
	for _, r := range s.removers {
		if err := r.DeleteByUser(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}
