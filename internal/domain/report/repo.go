package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	// List returns the user's reports date descending, optionally
	// filtered to one family member.
	List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID, limit, offset int) ([]*Report, int, error)
	// ListRecent returns the user's own most recent reports, date descending.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
