package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/realticker/internal/common"
)

func TestExtractGeneratedText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "array with generated_text",
			body: `[{"generated_text": "Upward trend expected."}]`,
			want: "Upward trend expected.",
		},
		{
			name: "array without generated_text",
			body: `[{"summary": "n/a"}]`,
			want: `{"summary": "n/a"}`,
		},
		{
			name: "object with generated_text",
			body: `{"generated_text": "Hold."}`,
			want: "Hold.",
		},
		{
			name:    "object with error field",
			body:    `{"error": "Model is currently loading"}`,
			wantErr: true,
		},
		{
			name: "bare json string",
			body: `"Sideways."`,
			want: "Sideways.",
		},
		{
			name: "non-json body",
			body: "plain model output",
			want: "plain model output",
		},
		{
			name: "number",
			body: "42",
			want: "42",
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractGeneratedText([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("extractGeneratedText(%q) = %q, want error", tt.body, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractGeneratedText(%q) error: %v", tt.body, err)
			}
			if got != tt.want {
				t.Errorf("extractGeneratedText(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func newTestHFGenerator(t *testing.T, baseURL string) *HuggingFaceGenerator {
	t.Helper()
	gen, err := NewHuggingFaceGenerator(&common.HuggingFaceConfig{
		APIKey:       "test-key",
		Model:        "google/flan-t5-large",
		BaseURL:      baseURL,
		Timeout:      "5s",
		MaxNewTokens: 256,
	}, common.GetLogger())
	if err != nil {
		t.Fatal(err)
	}
	return gen
}

func TestHuggingFaceGenerator_Generate(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`[{"generated_text": "{\"trend\": \"upward\"}"}]`))
	}))
	defer srv.Close()

	gen := newTestHFGenerator(t, srv.URL)
	got, err := gen.Generate(context.Background(), "Analyze AAPL")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if got != `{"trend": "upward"}` {
		t.Errorf("Generate() = %q", got)
	}
	if gotPath != "/models/google/flan-t5-large" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotBody.Inputs != "Analyze AAPL" {
		t.Errorf("request inputs = %q", gotBody.Inputs)
	}
	if gotBody.Parameters.MaxNewTokens != 256 {
		t.Errorf("max_new_tokens = %d, want 256", gotBody.Parameters.MaxNewTokens)
	}
}

func TestHuggingFaceGenerator_GenerateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gen := newTestHFGenerator(t, srv.URL)
	if _, err := gen.Generate(context.Background(), "Analyze AAPL"); err == nil {
		t.Fatal("Generate() succeeded, want error on 503")
	} else if !strings.Contains(err.Error(), "503") {
		t.Errorf("error %q does not mention the status code", err)
	}
}

func TestNewHuggingFaceGenerator_RequiresAPIKey(t *testing.T) {
	if _, err := NewHuggingFaceGenerator(&common.HuggingFaceConfig{}, common.GetLogger()); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewHuggingFaceGenerator_RejectsBadTimeout(t *testing.T) {
	_, err := NewHuggingFaceGenerator(&common.HuggingFaceConfig{
		APIKey:  "k",
		Timeout: "soon",
	}, common.GetLogger())
	if err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}
