package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"booksort/internal/services/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*llm.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := llm.NewClient(llm.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Referer: "https://example.com/booksort",
		Title:   "booksort",
	}, llm.WithHTTPClient(server.Client()))
	return client, server
}

func TestSuggestFolderNameReturnsTrimmedContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		if got := r.Header.Get("HTTP-Referer"); got != "https://example.com/booksort" {
			t.Errorf("referer header = %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["model"] != "test-model" {
			t.Errorf("model = %v", payload["model"])
		}
		messages, ok := payload["messages"].([]any)
		if !ok || len(messages) != 2 {
			t.Fatalf("messages = %v", payload["messages"])
		}
		user := messages[1].(map[string]any)
		if content, _ := user["content"].(string); !strings.Contains(content, "Dune") {
			t.Errorf("user prompt missing title: %q", content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Dune - Frank Herbert  "}}]}`))
	})

	name, err := client.SuggestFolderName(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("SuggestFolderName returned error: %v", err)
	}
	if name != "Dune - Frank Herbert" {
		t.Fatalf("name = %q, want %q", name, "Dune - Frank Herbert")
	}
}

func TestSuggestFolderNameAcceptsDeltaSchema(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"delta":{"content":"Neuromancer - William Gibson"}}]}`))
	})

	name, err := client.SuggestFolderName(context.Background(), "Neuromancer", "William Gibson")
	if err != nil {
		t.Fatalf("SuggestFolderName returned error: %v", err)
	}
	if name != "Neuromancer - William Gibson" {
		t.Fatalf("name = %q", name)
	}
}

func TestSuggestFolderNameDoesNotRetry(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	if _, err := client.SuggestFolderName(context.Background(), "Dune", "Frank Herbert"); err == nil {
		t.Fatal("expected error for http 429")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("request count = %d, want 1", got)
	}
}

func TestSuggestFolderNameErrorCases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty choices", body: `{"choices":[]}`},
		{name: "blank content", body: `{"choices":[{"message":{"content":"   "}}]}`},
		{name: "service error", body: `{"error":{"message":"model unavailable"}}`},
		{name: "invalid json", body: `not json`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			if _, err := client.SuggestFolderName(context.Background(), "Dune", "Frank Herbert"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSuggestFolderNameRequiresInputs(t *testing.T) {
	client := llm.NewClient(llm.Config{APIKey: "k"})
	if _, err := client.SuggestFolderName(context.Background(), "", "Frank Herbert"); err == nil {
		t.Fatal("expected error for missing title")
	}
	if _, err := client.SuggestFolderName(context.Background(), "Dune", ""); err == nil {
		t.Fatal("expected error for missing author")
	}
	noKey := llm.NewClient(llm.Config{})
	if _, err := noKey.SuggestFolderName(context.Background(), "Dune", "Frank Herbert"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
