package familymember

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *FamilyMember) error {
	if m.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Relation == "" {
		return fmt.Errorf("relation is required")
	}
	return s.repo.Create(ctx, m)
}

// Get returns one member. A member owned by another user is
// indistinguishable from one that does not exist.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*FamilyMember, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*FamilyMember, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, m *FamilyMember) error {
	existing, err := s.Get(ctx, userID, m.ID)
	if err != nil {
		return err
	}
	m.UserID = existing.UserID
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Relation == "" {
		return fmt.Errorf("relation is required")
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
