package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grounder-ai/grounder/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Host:       srv.URL,
		Model:      "test-model",
		EmbedModel: "test-embed",
	}, log.NewNop())
}

func TestGenerate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Stream {
			t.Error("stream must be false")
		}
		if req.Prompt != "hello" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  Paris \n"})
	})

	got, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Paris" {
		t.Errorf("response = %q, want trimmed %q", got, "Paris")
	}
}

func TestGenerateServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry status: %v", err)
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error should carry body snippet: %v", err)
	}
}

func TestGenerateContextCancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Generate(ctx, "hello"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestEmbed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-embed" {
			t.Errorf("model = %q", req.Model)
		}
		_ = json.NewEncoder(w).Encode(embeddingsResponse{Embedding: []float32{0.1, 0.2}})
	})

	vec, err := client.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("embedding length = %d", len(vec))
	}
}

func TestEmbedEmptyVector(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embeddingsResponse{})
	})

	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty embedding")
	}
}

func TestHostTrailingSlash(t *testing.T) {
	c := NewClient(Config{Host: "http://localhost:11434/"}, log.NewNop())
	if c.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
