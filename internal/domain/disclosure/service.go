package disclosure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carevault/carevault/internal/domain/account"
	"github.com/carevault/carevault/internal/domain/emergencytoken"
	"github.com/carevault/carevault/internal/domain/medicalinfo"
	"github.com/carevault/carevault/internal/domain/report"
	"github.com/carevault/carevault/internal/platform/cache"
)

// TokenResolver resolves a raw emergency token to its owner.
type TokenResolver interface {
	LookupOwner(ctx context.Context, token string) (uuid.UUID, error)
}

// NameSource yields the owner's display name.
type NameSource interface {
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
}

// MedicalSource yields the owner's medical info document.
type MedicalSource interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*medicalinfo.MedicalInfo, error)
}

// ReportSource yields the owner's most recent reports.
type ReportSource interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*report.Report, error)
}

const recentReportLimit = 5

// DefaultCacheTTL bounds how long a rendered profile keeps serving
// after the underlying data changes.
const DefaultCacheTTL = 60 * time.Second

type Service struct {
	tokens  TokenResolver
	names   NameSource
	medical MedicalSource
	reports ReportSource
	cache   cache.Store
	ttl     time.Duration
}

// NewService creates the disclosure service. cache may be nil to
// disable response caching; ttl <= 0 selects DefaultCacheTTL.
func NewService(tokens TokenResolver, names NameSource, medical MedicalSource, reports ReportSource, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		tokens:  tokens,
		names:   names,
		medical: medical,
		reports: reports,
		cache:   store,
		ttl:     ttl,
	}
}

// TTL reports how long a rendered profile may be served from cache.
// The HTTP layer mirrors it in the Cache-Control header so rotating a
// token bounds downstream staleness by the same window.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// cacheEntry wraps the rendered profile with the owner id so a cache
// hit can still be attributed in the audit log. Only Profile is ever
// served to the caller.
type cacheEntry struct {
	Owner   uuid.UUID     `json:"owner"`
	Profile PublicProfile `json:"profile"`
}

// Resolve renders the public profile for a raw token, returning the
// profile and the owning account's id. Malformed tokens are rejected
// before the cache or storage is touched. A well-formed token that
// does not resolve returns emergencytoken.ErrNotFound,
// indistinguishable between never-issued and rotated-away.
func (s *Service) Resolve(ctx context.Context, token string) (*PublicProfile, uuid.UUID, error) {
	if !emergencytoken.IsValidFormat(token) {
		return nil, uuid.Nil, emergencytoken.ErrInvalidToken
	}
	key := emergencytoken.DisclosureCacheKey(emergencytoken.Digest(token))

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var cached cacheEntry
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached.Profile, cached.Owner, nil
			}
		}
	}

	userID, err := s.tokens.LookupOwner(ctx, token)
	if err != nil {
		return nil, uuid.Nil, err
	}

	name, err := s.names.DisplayName(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, uuid.Nil, emergencytoken.ErrNotFound
		}
		return nil, uuid.Nil, fmt.Errorf("resolve owner: %w", err)
	}

	info, err := s.medical.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, medicalinfo.ErrNotFound) {
		return nil, uuid.Nil, fmt.Errorf("load medical info: %w", err)
	}

	recent, err := s.reports.ListRecent(ctx, userID, recentReportLimit)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("load recent reports: %w", err)
	}

	profile := &PublicProfile{
		Success: true,
		Patient: PublicPatient{Name: name},
		Medical: projectMedical(info),
		Reports: make([]PublicReport, 0, len(recent)),
	}
	for _, r := range recent {
		profile.Reports = append(profile.Reports, projectReport(r))
	}

	if s.cache != nil {
		data, err := json.Marshal(cacheEntry{Owner: userID, Profile: *profile})
		if err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				log.Warn().Err(err).Msg("failed to cache disclosure profile")
			}
		}
	}

	return profile, userID, nil
}
