package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/config"
)

func TestOpenRouterReply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model     string  `json:"model"`
			MaxTokens int     `json:"max_tokens"`
			Temp      float64 `json:"temperature"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.MaxTokens != 300 || body.Temp != 0.7 || len(body.Messages) != 2 {
			t.Errorf("unexpected request %+v", body)
		}
		if body.Messages[1].Content != "when is payday?" {
			t.Errorf("user message = %q", body.Messages[1].Content)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  The 25th.  "}}]}`))
	}))
	defer srv.Close()

	svc := NewOpenRouterService(testChatConfig(srv.URL))
	got, err := svc.Reply(t.Context(), "when is payday?", "department: Finance")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "The 25th." {
		t.Fatalf("reply = %q", got)
	}
}

func TestOpenRouterReplyEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenRouterService(testChatConfig(srv.URL)).Reply(t.Context(), "hi", "")
	if !apperror.Is(err, apperror.KindDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestOpenRouterReplyMissingKey(t *testing.T) {
	t.Parallel()

	cfg := testChatConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	_, err := NewOpenRouterService(cfg).Reply(t.Context(), "hi", "")
	if !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChatEndpointReply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "hello" || body["context"] != "ctx" {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = w.Write([]byte(`{"response":"welcome aboard"}`))
	}))
	defer srv.Close()

	got, err := NewChatEndpointService(testChatConfig(srv.URL)).Reply(t.Context(), "hello", "ctx")
	if err != nil || got != "welcome aboard" {
		t.Fatalf("Reply = %q, %v", got, err)
	}
}

func TestChatEndpointHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewChatEndpointService(testChatConfig(srv.URL)).Reply(t.Context(), "hello", "")
	if !apperror.Is(err, apperror.KindHTTP) {
		t.Fatalf("expected http error, got %v", err)
	}
}

func TestNewChatServiceFallsBackWithoutGemini(t *testing.T) {
	t.Parallel()

	cfg := testChatConfig("http://127.0.0.1:1")
	cfg.Provider = "gemini"
	if p := NewChatService(cfg, nil).Provider(); p != "endpoint" {
		t.Fatalf("provider = %s", p)
	}
	cfg.Provider = "openrouter"
	if p := NewChatService(cfg, nil).Provider(); p != "openrouter" {
		t.Fatalf("provider = %s", p)
	}
}

// --- stubs ---

func testChatConfig(baseURL string) *config.ChatConfig {
	return &config.ChatConfig{
		Provider:    "openrouter",
		BaseURL:     baseURL,
		APIKey:      "key",
		Model:       "test-model",
		MaxTokens:   300,
		Temperature: 0.7,
	}
}
