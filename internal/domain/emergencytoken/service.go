package emergencytoken

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carevault/carevault/internal/platform/cache"
)

type Service struct {
	repo  Repository
	cache cache.Store
}

// NewService creates the token service. cache may be nil when no
// disclosure response cache is configured.
func NewService(repo Repository, cache cache.Store) *Service {
	return &Service{repo: repo, cache: cache}
}

// Rotate issues a fresh token for the user, replacing any previous one.
// The upsert is all-or-nothing: on failure the previous token stays
// valid. On success the superseded digest's cached disclosure is
// dropped eagerly so the old token stops serving before the TTL runs out.
func (s *Service) Rotate(ctx context.Context, userID uuid.UUID) (*EmergencyToken, error) {
	token, err := Generate()
	if err != nil {
		return nil, err
	}

	prev, err := s.repo.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	t := &EmergencyToken{
		UserID: userID,
		Token:  token,
		Digest: Digest(token),
	}
	if err := s.repo.Upsert(ctx, t); err != nil {
		return nil, err
	}

	if prev != nil && s.cache != nil {
		if err := s.cache.Delete(ctx, DisclosureCacheKey(prev.Digest)); err != nil {
			log.Warn().Err(err).Msg("failed to evict superseded disclosure cache entry")
		}
	}

	return t, nil
}

// Current returns the user's active token, or ErrNotFound if none has
// been generated yet.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*EmergencyToken, error) {
	return s.repo.GetByUser(ctx, userID)
}

// LookupOwner resolves a raw token to its owner. Malformed input is
// rejected before any storage access; a well-formed token that does not
// resolve returns ErrNotFound whether it never existed or was rotated away.
func (s *Service) LookupOwner(ctx context.Context, token string) (uuid.UUID, error) {
	if !IsValidFormat(token) {
		return uuid.Nil, ErrInvalidToken
	}
	t, err := s.repo.GetByDigest(ctx, Digest(token))
	if err != nil {
		return uuid.Nil, err
	}
	return t.UserID, nil
}
