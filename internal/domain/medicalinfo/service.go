package medicalinfo

import (
	"context"

	"github.com/google/uuid"

	"github.com/carevault/carevault/internal/platform/phi"
)

type Service struct {
	repo      Repository
	encryptor *phi.Encryptor
}

// NewService creates the medical-info service. encryptor may be nil, in
// which case fields are stored in the clear.
func NewService(repo Repository, encryptor *phi.Encryptor) *Service {
	return &Service{repo: repo, encryptor: encryptor}
}

// Upsert saves the user's medical document, replacing any existing one.
func (s *Service) Upsert(ctx context.Context, m *MedicalInfo) error {
	if err := s.encrypt(m); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return err
	}
	// Hand the caller back plaintext, not what was stored.
	return s.decrypt(m)
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*MedicalInfo, error) {
	m, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.decrypt(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) encrypt(m *MedicalInfo) error {
	if s.encryptor == nil {
		return nil
	}
	for _, f := range m.sensitiveFields() {
		if *f == "" {
			continue
		}
		enc, err := s.encryptor.Encrypt(*f)
		if err != nil {
			return err
		}
		*f = enc
	}
	return nil
}

func (s *Service) decrypt(m *MedicalInfo) error {
	if s.encryptor == nil {
		return nil
	}
	for _, f := range m.sensitiveFields() {
		if *f == "" {
			continue
		}
		dec, err := s.encryptor.Decrypt(*f)
		if err != nil {
			return err
		}
		*f = dec
	}
	return nil
}
