package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/Aravindkumar2195/mom-app/model"
)

func newGeminiTestServer(t *testing.T, reply string, status int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("Unexpected request path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("Expected API key header on request")
		}

		w.WriteHeader(status)
		if status != http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": status, "message": "upstream failure"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))
	return server, &calls
}

func newTestGeminiService(url string) *GeminiService {
	return NewGeminiService(&config.GeminiConfig{
		APIURL: url,
		APIKey: "test-key",
		Model:  "gemini-2.5-flash",
	})
}

func TestPolishTextSuccess(t *testing.T) {
	server, _ := newGeminiTestServer(t, "The conveyor guard was found loose.", http.StatusOK)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	got := svc.PolishText("conveyor thing kinda loose")
	if got != "The conveyor guard was found loose." {
		t.Errorf("Expected polished text, got %q", got)
	}
}

func TestPolishTextShortInputSkipsAPI(t *testing.T) {
	server, calls := newGeminiTestServer(t, "unused", http.StatusOK)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	for _, input := range []string{"", "ok", "abcd"} {
		if got := svc.PolishText(input); got != input {
			t.Errorf("Expected short input %q returned unchanged, got %q", input, got)
		}
	}
	if *calls != 0 {
		t.Errorf("Expected no API calls for short input, got %d", *calls)
	}
}

func TestPolishTextFailureKeepsOriginal(t *testing.T) {
	server, _ := newGeminiTestServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	if got := svc.PolishText("machine was leaking oil near press"); got != "machine was leaking oil near press" {
		t.Errorf("Expected original text on API failure, got %q", got)
	}
}

func TestPolishTextUnreachableKeepsOriginal(t *testing.T) {
	svc := newTestGeminiService("http://127.0.0.1:1")
	if got := svc.PolishText("machine was leaking oil near press"); got != "machine was leaking oil near press" {
		t.Errorf("Expected original text when API is unreachable, got %q", got)
	}
}

func TestSummarizeSuccess(t *testing.T) {
	server, _ := newGeminiTestServer(t, "Overall a positive visit with one safety concern.", http.StatusOK)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	got := svc.Summarize([]model.Observation{
		{Category: "Safety (EHS)", Description: "Loose bolts"},
	}, "Acme")
	if got != "Overall a positive visit with one safety concern." {
		t.Errorf("Expected generated summary, got %q", got)
	}
}

func TestSummarizeEmptyObservationsSkipsAPI(t *testing.T) {
	server, calls := newGeminiTestServer(t, "unused", http.StatusOK)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	if got := svc.Summarize(nil, "Acme"); got != "" {
		t.Errorf("Expected empty summary for no observations, got %q", got)
	}
	if *calls != 0 {
		t.Errorf("Expected no API calls for empty observations, got %d", *calls)
	}
}

func TestSummarizeFailureReturnsFallbackText(t *testing.T) {
	server, _ := newGeminiTestServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	got := svc.Summarize([]model.Observation{{Description: "Loose bolts"}}, "Acme")
	if got != SummaryFailureText {
		t.Errorf("Expected %q on failure, got %q", SummaryFailureText, got)
	}
}

func TestSummarizePrefersPolishedDescriptions(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	svc.Summarize([]model.Observation{
		{Category: "Quality Control", Description: "raw words", PolishedDescription: "Refined wording."},
	}, "Acme")

	if !strings.Contains(prompt, "Refined wording.") {
		t.Error("Expected prompt built from polished description")
	}
	if strings.Contains(prompt, "raw words") {
		t.Error("Expected raw description replaced by its polished form in the prompt")
	}
	if !strings.Contains(prompt, "Acme") {
		t.Error("Expected supplier name in the prompt")
	}
}

func TestGenerateContentJoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "first half "},
					{"text": "second half"},
				}}},
			},
		})
	}))
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	got, err := svc.generateContent("prompt")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if got != "first half second half" {
		t.Errorf("Expected joined parts, got %q", got)
	}
}

func TestGenerateContentNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	svc := newTestGeminiService(server.URL)
	if _, err := svc.generateContent("prompt"); err == nil {
		t.Error("Expected error for empty candidate list")
	}
}
