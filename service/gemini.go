package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/Aravindkumar2195/mom-app/model"
)

// SummaryFailureText is returned when summary generation fails
const SummaryFailureText = "Summary generation unavailable."

// minPolishLength is the minimum input length worth sending to the model
const minPolishLength = 5

// GeminiService wraps the Gemini generateContent REST API. Both operations
// degrade on failure instead of returning errors: polishing falls back to the
// original text, summarization to an explicit unavailability string.
type GeminiService struct {
	config     *config.GeminiConfig
	httpClient *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewGeminiService(cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// generateContent sends a single-turn prompt and returns the model's text
func (s *GeminiService) generateContent(prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.config.APIURL, s.config.Model)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// PolishText rewrites an observation into concise business English.
// On failure or for very short input it returns the original text unchanged.
func (s *GeminiService) PolishText(text string) string {
	if len(text) < minPolishLength {
		return text
	}

	prompt := fmt.Sprintf(`Rewrite the following observation from a factory visit to be professional, concise, and clear business English. Maintain the technical meaning but remove casual phrasing.

Observation: %q`, text)

	polished, err := s.generateContent(prompt)
	if err != nil {
		slog.Warn("polish failed, keeping original text", "error", err)
		return text
	}
	return polished
}

// Summarize produces a short executive summary for the given observations.
// Returns "" for an empty observation list and SummaryFailureText on failure.
func (s *GeminiService) Summarize(observations []model.Observation, supplierName string) string {
	if len(observations) == 0 {
		return ""
	}

	var lines []string
	for _, o := range observations {
		desc := o.Description
		if o.PolishedDescription != "" {
			desc = o.PolishedDescription
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", o.Category, desc))
	}

	prompt := fmt.Sprintf(`Create a brief Executive Summary (max 100 words) for a supplier visit report for %q.
Highlight key areas of concern and positive points based on these observations:

%s`, supplierName, strings.Join(lines, "\n"))

	summary, err := s.generateContent(prompt)
	if err != nil {
		slog.Warn("summary generation failed", "error", err)
		return SummaryFailureText
	}
	return summary
}
