package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TapaalTracker/internal/config"

	"go.uber.org/zap"
)

func newTestGemini(url, key string, timeout time.Duration) *GeminiClient {
	return NewGeminiClient(&config.GeminiConfig{APIKey: key, Model: "gemini-2.0-flash", BaseURL: url, Timeout: timeout}, zap.NewNop())
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "prompt text" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Paris is "},{"text":"the capital."}]}}]}`))
	}))
	defer srv.Close()

	got, err := newTestGemini(srv.URL, "test-key", time.Second).Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Paris is the capital." {
		t.Errorf("text = %q", got)
	}
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		delay  time.Duration
		want   FailureClass
	}{
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`, 0, FailureMissingCredentials},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, 0, FailureQuotaExceeded},
		{"server error", http.StatusInternalServerError, `oops`, 0, FailureUnavailable},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, 0, FailureUnavailable},
		{"timeout", http.StatusOK, `{}`, 200 * time.Millisecond, FailureUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.delay > 0 {
					time.Sleep(tt.delay)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestGemini(srv.URL, "k", 50*time.Millisecond).Generate(context.Background(), "p")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ClassifyFailure(err); got != tt.want {
				t.Errorf("class = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestGeminiMissingKey(t *testing.T) {
	_, err := newTestGemini("http://127.0.0.1:0", "", time.Second).Generate(context.Background(), "p")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error text = %q", err)
	}
}
