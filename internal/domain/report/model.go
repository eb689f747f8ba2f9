package report

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("report not found")

// Report maps to the report table. Analysis holds the analyzer's JSON
// output verbatim (JSONB); consumers outside the account only ever see
// the executive summary projected out of it.
type Report struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"userId"`
	MemberID    *uuid.UUID      `db:"member_id" json:"memberId,omitempty"`
	Title       string          `db:"title" json:"title"`
	Type        string          `db:"type" json:"type"`
	Date        time.Time       `db:"date" json:"date"`
	Clinic      string          `db:"clinic" json:"clinic,omitempty"`
	FileDataURI string          `db:"file_data_uri" json:"fileDataUri,omitempty"`
	Analysis    json.RawMessage `db:"analysis" json:"analysis"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// ExecutiveSummary extracts the analysis executive summary, or "" when
// the analysis lacks one.
func (r *Report) ExecutiveSummary() string {
	if len(r.Analysis) == 0 {
		return ""
	}
	var partial struct {
		ExecutiveSummary string `json:"executiveSummary"`
	}
	if err := json.Unmarshal(r.Analysis, &partial); err != nil {
		return ""
	}
	return partial.ExecutiveSummary
}

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mimeType, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(meta, "base64") {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mimeType, data, nil
}
