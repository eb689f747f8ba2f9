package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client analyzes uploaded reports and answers assistant chat messages.
type Client interface {
	AnalyzeReport(ctx context.Context, input AnalyzeInput) (*ReportAnalysis, error)
	Chat(ctx context.Context, message string, history []ChatMessage) (string, error)
}

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-flash-latest"

	chatMaxOutputTokens = 500
)

const chatSystemContext = `You are a helpful and empathetic health assistant.
Your goal is to assist patients with general health questions, understanding
medical terms, and navigating their health records.

Always clarify that you are an AI, not a doctor. For any serious medical
symptoms, advise the user to consult a doctor immediately or go to the
emergency room. Do not provide diagnoses or prescribe medication.

Keep your responses concise, friendly, and easy to understand.`

const analysisDisclaimer = `This AI-generated report is for informational purposes only. Please do not rely on it alone—always consult a qualified doctor for medical advice.`

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
}

// Option configures a GeminiClient.
type Option func(*GeminiClient)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *GeminiClient) { c.model = model }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *GeminiClient) { c.client.SetTimeout(d) }
}

// NewGeminiClient creates a client for the given base URL and API key.
// An empty baseURL falls back to the public Gemini endpoint.
func NewGeminiClient(baseURL, apiKey string, opts ...Option) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(2 * time.Minute)

	c := &GeminiClient{client: rc, apiKey: apiKey, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateContent request/response structs for JSON binding

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeReport sends the report file to the model and decodes the
// structured JSON analysis from the response.
func (c *GeminiClient) AnalyzeReport(ctx context.Context, input AnalyzeInput) (*ReportAnalysis, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("report data is required")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("ai api key not configured")
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	req := generateRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []contentPart{
					{Text: c.analysisPrompt(input)},
					{InlineData: &inlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(input.Data),
					}},
				},
			},
		},
		GenerationConfig: &generationConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze report: %w", err)
	}

	var analysis ReportAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &analysis); err != nil {
		return nil, fmt.Errorf("analyze report: decode analysis: %w", err)
	}
	return &analysis, nil
}

// Chat sends one user message plus conversation history and returns the reply.
func (c *GeminiClient) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("ai api key not configured")
	}

	// The system context rides on the first message of a fresh conversation.
	final := message
	if len(history) == 0 {
		final = chatSystemContext + "\n\nUser Question: " + message
	}

	contents := make([]content, 0, len(history)+1)
	for _, h := range history {
		contents = append(contents, content{
			Role:  h.Role,
			Parts: []contentPart{{Text: h.Text}},
		})
	}
	contents = append(contents, content{
		Role:  "user",
		Parts: []contentPart{{Text: final}},
	})

	req := generateRequest{
		Contents:         contents,
		GenerationConfig: &generationConfig{MaxOutputTokens: chatMaxOutputTokens},
	}

	reply, err := c.generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}

func (c *GeminiClient) generate(ctx context.Context, req generateRequest) (string, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(&req).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("api error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func (c *GeminiClient) analysisPrompt(input AnalyzeInput) string {
	var b strings.Builder
	b.WriteString("You are an expert medical diagnostician. Analyze the attached lab report.\n")

	if len(input.PastReports) > 0 {
		b.WriteString("\nCompare with these past reports:\n")
		for _, pr := range input.PastReports {
			fmt.Fprintf(&b, "- %s: %s\n", pr.Date, pr.Title)
		}
	}

	lang := input.Language
	if lang == "" {
		lang = "English"
	}
	fmt.Fprintf(&b, "\nOutput Language: %s\n", lang)

	b.WriteString(`
Respond with a single JSON object matching this shape:
{
  "reportSummary": string,
  "documentType": string,
  "executiveSummary": string,
  "keyFindings": [string],
  "importantData": [string],
  "strengths": [string],
  "weaknesses": [string],
  "insights": string,
  "recommendations": [string],
  "conclusion": string,
  "healthParameters": [{"name": string, "value": string, "unit": string, "change": string}],
  "extractedMetadata": {"title": string, "date": string, "type": string, "clinic": string}
}

End the conclusion with this disclaimer:
"` + analysisDisclaimer + `"
`)
	return b.String()
}

// stripCodeFence removes a markdown code fence if the model wrapped its
// JSON output in one despite the response mime type.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
