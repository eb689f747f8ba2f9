package ai

// HealthParameter is a single measured value extracted from a lab report,
// with a change indicator relative to past reports.
type HealthParameter struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	Unit       string `json:"unit"`
	Change     string `json:"change"`
	TrendGraph string `json:"trendGraph,omitempty"`
}

// ExtractedMetadata holds document metadata the model pulls out of the report.
type ExtractedMetadata struct {
	Title  string `json:"title"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Clinic string `json:"clinic"`
}

// ReportAnalysis is the structured output of a report analysis run.
type ReportAnalysis struct {
	ReportSummary     string            `json:"reportSummary"`
	DocumentType      string            `json:"documentType"`
	ExecutiveSummary  string            `json:"executiveSummary"`
	KeyFindings       []string          `json:"keyFindings"`
	ImportantData     []string          `json:"importantData"`
	Strengths         []string          `json:"strengths"`
	Weaknesses        []string          `json:"weaknesses"`
	Insights          string            `json:"insights"`
	Recommendations   []string          `json:"recommendations"`
	Conclusion        string            `json:"conclusion"`
	HealthParameters  []HealthParameter `json:"healthParameters"`
	ExtractedMetadata ExtractedMetadata `json:"extractedMetadata"`
}

// PastReport is a previously analyzed report passed along for comparison.
type PastReport struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// AnalyzeInput describes a report to analyze. Data carries the raw file
// bytes and MimeType its content type (application/pdf, image/png, ...).
type AnalyzeInput struct {
	Data        []byte
	MimeType    string
	PastReports []PastReport
	Language    string
}

// ChatMessage is one turn of an assistant conversation.
// Role is "user" or "model".
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
