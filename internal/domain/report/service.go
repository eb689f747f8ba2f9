package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carevault/carevault/internal/platform/ai"
)

// Analyzer is the slice of the AI client the report service needs.
type Analyzer interface {
	AnalyzeReport(ctx context.Context, input ai.AnalyzeInput) (*ai.ReportAnalysis, error)
}

type Service struct {
	repo     Repository
	analyzer Analyzer
}

// NewService creates the report service. analyzer may be nil when no AI
// endpoint is configured; uploads must then carry a precomputed analysis.
func NewService(repo Repository, analyzer Analyzer) *Service {
	return &Service{repo: repo, analyzer: analyzer}
}

// CreateInput describes a report upload.
type CreateInput struct {
	MemberID    *uuid.UUID
	Title       string
	Type        string
	Date        time.Time
	Clinic      string
	FileDataURI string
	Analysis    json.RawMessage
	Language    string
}

// Create stores a report. When the upload carries no analysis, the file
// is sent to the analyzer and its structured output is stored verbatim.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Report, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if in.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}

	analysis := in.Analysis
	if len(analysis) == 0 {
		if s.analyzer == nil || in.FileDataURI == "" {
			return nil, fmt.Errorf("either analysis or a report file is required")
		}
		mimeType, data, err := ParseDataURI(in.FileDataURI)
		if err != nil {
			return nil, err
		}
		past, err := s.pastReports(ctx, userID)
		if err != nil {
			return nil, err
		}
		result, err := s.analyzer.AnalyzeReport(ctx, ai.AnalyzeInput{
			Data:        data,
			MimeType:    mimeType,
			PastReports: past,
			Language:    in.Language,
		})
		if err != nil {
			return nil, fmt.Errorf("analyze report: %w", err)
		}
		analysis, err = json.Marshal(result)
		if err != nil {
			return nil, err
		}
	}

	rep := &Report{
		UserID:      userID,
		MemberID:    in.MemberID,
		Title:       in.Title,
		Type:        in.Type,
		Date:        in.Date,
		Clinic:      in.Clinic,
		FileDataURI: in.FileDataURI,
		Analysis:    analysis,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) pastReports(ctx context.Context, userID uuid.UUID) ([]ai.PastReport, error) {
	recent, err := s.repo.ListRecent(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	past := make([]ai.PastReport, 0, len(recent))
	for _, r := range recent {
		past = append(past, ai.PastReport{
			ID:    r.ID.String(),
			Title: r.Title,
			Date:  r.Date.Format("2006-01-02"),
		})
	}
	return past, nil
}

// Get returns one report. A report owned by another user is
// indistinguishable from one that does not exist.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.UserID != userID {
		return nil, ErrNotFound
	}
	return rep, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, memberID *uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return s.repo.List(ctx, userID, memberID, limit, offset)
}

// ListRecent returns the user's most recent reports for public
// disclosure projection.
func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Report, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rep.UserID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
