package familymember

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *FamilyMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*FamilyMember, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*FamilyMember, error)
	Update(ctx context.Context, m *FamilyMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
