package disclosure

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault/internal/domain/account"
	"github.com/carevault/carevault/internal/domain/emergencytoken"
	"github.com/carevault/carevault/internal/domain/medicalinfo"
	"github.com/carevault/carevault/internal/domain/report"
	"github.com/carevault/carevault/internal/platform/cache"
)

type mockTokens struct {
	known   map[string]uuid.UUID
	lookups int
}

func (m *mockTokens) LookupOwner(_ context.Context, token string) (uuid.UUID, error) {
	m.lookups++
	id, ok := m.known[token]
	if !ok {
		return uuid.Nil, emergencytoken.ErrNotFound
	}
	return id, nil
}

type mockNames struct {
	names map[uuid.UUID]string
	calls int
}

func (m *mockNames) DisplayName(_ context.Context, id uuid.UUID) (string, error) {
	m.calls++
	name, ok := m.names[id]
	if !ok {
		return "", account.ErrNotFound
	}
	return name, nil
}

type mockMedical struct {
	infos map[uuid.UUID]*medicalinfo.MedicalInfo
	calls int
}

func (m *mockMedical) GetByUser(_ context.Context, userID uuid.UUID) (*medicalinfo.MedicalInfo, error) {
	m.calls++
	info, ok := m.infos[userID]
	if !ok {
		return nil, medicalinfo.ErrNotFound
	}
	return info, nil
}

type mockReports struct {
	reports map[uuid.UUID][]*report.Report
	calls   int
}

func (m *mockReports) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]*report.Report, error) {
	m.calls++
	rs := m.reports[userID]
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs, nil
}

const validToken = "abababababababababababababababababababababababababababababababab"

func newFixture() (*Service, *mockTokens, *mockNames, *mockMedical, *mockReports, uuid.UUID) {
	userID := uuid.New()
	tokens := &mockTokens{known: map[string]uuid.UUID{validToken: userID}}
	names := &mockNames{names: map[uuid.UUID]string{userID: "Maria Santos"}}
	medical := &mockMedical{infos: map[uuid.UUID]*medicalinfo.MedicalInfo{}}
	reports := &mockReports{reports: map[uuid.UUID][]*report.Report{}}
	svc := NewService(tokens, names, medical, reports, nil, 0)
	return svc, tokens, names, medical, reports, userID
}

func TestResolve_MalformedToken_NoBackendAccess(t *testing.T) {
	svc, tokens, names, medical, reports, _ := newFixture()

	for _, tok := range []string{"", "short", strings.ToUpper(validToken), validToken + "0"} {
		if _, _, err := svc.Resolve(context.Background(), tok); !errors.Is(err, emergencytoken.ErrInvalidToken) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
	if tokens.lookups != 0 || names.calls != 0 || medical.calls != 0 || reports.calls != 0 {
		t.Error("malformed tokens must be rejected before any backend access")
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	svc, tokens, _, _, _, _ := newFixture()

	unknown := strings.Repeat("cd", 32)
	if _, _, err := svc.Resolve(context.Background(), unknown); !errors.Is(err, emergencytoken.ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound", err)
	}
	if tokens.lookups != 1 {
		t.Errorf("expected exactly one token lookup, got %d", tokens.lookups)
	}
}

func TestResolve_FullProfile(t *testing.T) {
	svc, _, _, medical, reports, userID := newFixture()
	medical.infos[userID] = &medicalinfo.MedicalInfo{
		UserID:       userID,
		FullName:     "Maria Santos",
		BirthYear:    "1961",
		BloodGroup:   "O-",
		Allergies:    "penicillin",
		MedicalNotes: "pacemaker fitted 2019",
	}
	reports.reports[userID] = []*report.Report{
		{
			ID:       uuid.New(),
			UserID:   userID,
			Title:    "Annual blood panel",
			Type:     "Lab Report",
			Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			Clinic:   "City Lab",
			Analysis: json.RawMessage(`{"executiveSummary":"All markers within range.","keyFindings":["HbA1c 5.2%"]}`),
		},
	}

	profile, owner, err := svc.Resolve(context.Background(), validToken)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !profile.Success {
		t.Error("expected success flag")
	}
	if owner != userID {
		t.Errorf("owner = %s, want %s", owner, userID)
	}
	if profile.Patient.Name != "Maria Santos" {
		t.Errorf("patient name = %q", profile.Patient.Name)
	}
	if profile.Medical.BloodGroup != "O-" || profile.Medical.Allergies != "penicillin" {
		t.Error("medical projection missing stored fields")
	}
	if len(profile.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(profile.Reports))
	}
	r := profile.Reports[0]
	if r.Summary != "All markers within range." {
		t.Errorf("summary = %q", r.Summary)
	}
	if r.Date != "2026-03-14" {
		t.Errorf("date = %q", r.Date)
	}
}

func TestResolve_ProjectionOmitsInternalFields(t *testing.T) {
	svc, _, _, medical, _, userID := newFixture()
	medical.infos[userID] = &medicalinfo.MedicalInfo{
		ID:              uuid.New(),
		UserID:          userID,
		BirthYear:       "1961",
		BloodGroupOther: "Bombay",
	}

	profile, _, err := svc.Resolve(context.Background(), validToken)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, forbidden := range []string{"birthYear", "bloodGroupOther", "userId", "email", "passwordHash", "1961", "Bombay"} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("public payload leaks %q", forbidden)
		}
	}
}

func TestResolve_NoMedicalInfoPlaceholder(t *testing.T) {
	svc, _, _, _, _, _ := newFixture()

	profile, _, err := svc.Resolve(context.Background(), validToken)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !profile.Success {
		t.Error("missing medical info must not fail the disclosure")
	}
	if profile.Medical.BloodGroup != "Not specified" {
		t.Errorf("blood group placeholder = %q", profile.Medical.BloodGroup)
	}
	if profile.Reports == nil {
		t.Error("reports must marshal as an empty array, not null")
	}
}

func TestResolve_CachesRenderedProfile(t *testing.T) {
	userID := uuid.New()
	tokens := &mockTokens{known: map[string]uuid.UUID{validToken: userID}}
	names := &mockNames{names: map[uuid.UUID]string{userID: "Maria Santos"}}
	medical := &mockMedical{infos: map[uuid.UUID]*medicalinfo.MedicalInfo{}}
	reports := &mockReports{reports: map[uuid.UUID][]*report.Report{}}
	svc := NewService(tokens, names, medical, reports, cache.NewMemoryStore(), time.Minute)

	first, _, err := svc.Resolve(context.Background(), validToken)
	if err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	profile, owner, err := svc.Resolve(context.Background(), validToken)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if profile.Patient.Name != "Maria Santos" {
		t.Errorf("cached profile name = %q", profile.Patient.Name)
	}
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(profile)
	if string(firstJSON) != string(secondJSON) {
		t.Error("repeated resolves with no intervening mutation must return identical output")
	}
	if owner != userID {
		t.Errorf("cached owner = %s, want %s", owner, userID)
	}
	if tokens.lookups != 1 || names.calls != 1 || medical.calls != 1 || reports.calls != 1 {
		t.Errorf("second resolve must be served from cache: lookups=%d names=%d medical=%d reports=%d",
			tokens.lookups, names.calls, medical.calls, reports.calls)
	}
}

func TestResolve_OrphanedTokenHidden(t *testing.T) {
	svc, _, names, _, _, userID := newFixture()
	delete(names.names, userID)

	if _, _, err := svc.Resolve(context.Background(), validToken); !errors.Is(err, emergencytoken.ErrNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNotFound for orphaned token", err)
	}
}
