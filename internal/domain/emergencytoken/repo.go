package emergencytoken

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert replaces the user's token in a single conditional insert so
	// concurrent rotations end with exactly one winner.
	Upsert(ctx context.Context, t *EmergencyToken) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*EmergencyToken, error)
	GetByDigest(ctx context.Context, digest string) (*EmergencyToken, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
