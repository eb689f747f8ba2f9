package medicalinfo

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Upsert(ctx context.Context, m *MedicalInfo) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*MedicalInfo, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
