package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// OllamaStub is a fake Ollama server for tests. It serves the two endpoints
// the client uses: /api/generate answers from registered pattern rules, and
// /api/embeddings returns deterministic hash-derived vectors.
//
// Thread-safe for concurrent use.
type OllamaStub struct {
	Server *httptest.Server

	mu       sync.Mutex
	rules    []stubRule
	fallback string
	prompts  []string
	embedder *HashEmbedder
}

type stubRule struct {
	pattern  string // substring match in the prompt, case-insensitive
	response string
}

// NewOllamaStub starts a stub server with the given fallback completion.
// The server is shut down automatically when the test ends.
func NewOllamaStub(t *testing.T, fallback string) *OllamaStub {
	t.Helper()

	s := &OllamaStub{
		fallback: fallback,
		embedder: NewHashEmbedder(768),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.generate)
	mux.HandleFunc("POST /api/embeddings", s.embeddings)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// URL returns the stub server's base URL.
func (s *OllamaStub) URL() string { return s.Server.URL }

// AddResponse registers a pattern-response pair. When a prompt contains the
// pattern (case-insensitive), the response is returned. Rules are checked in
// registration order; first match wins.
func (s *OllamaStub) AddResponse(pattern, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, stubRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// Prompts returns a copy of every prompt the stub has served.
func (s *OllamaStub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]string, len(s.prompts))
	copy(cp, s.prompts)
	return cp
}

func (s *OllamaStub) generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.prompts = append(s.prompts, req.Prompt)
	response := s.fallback
	lower := strings.ToLower(req.Prompt)
	for _, rule := range s.rules {
		if strings.Contains(lower, rule.pattern) {
			response = rule.response
			break
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
}

func (s *OllamaStub) embeddings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vec, _ := s.embedder.Embed(r.Context(), req.Prompt)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"embedding": vec})
}
