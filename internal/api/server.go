// Package api exposes the agent over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/grounder-ai/grounder/internal/session"
)

// Agent is the orchestrator surface the API exposes.
type Agent interface {
	Answer(ctx context.Context, query string) string
	ReviewText(ctx context.Context, code string) string
	ReviewFile(ctx context.Context, path string) string
	History() []session.Turn
	SetHistory(history []session.Turn)
}

// ToolRunner executes registered tools by name.
type ToolRunner interface {
	Dispatch(ctx context.Context, name, input string) string
	Names() []string
}

// SessionStore persists conversation history.
type SessionStore interface {
	Save(history []session.Turn) error
	Load() []session.Turn
}

// Ingester refreshes the knowledge collection from a source directory.
// *knowledge.Store satisfies this.
type Ingester interface {
	Initialized() bool
	Ingest(ctx context.Context, dir string) (int, error)
}

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger   *slog.Logger
	Agent    Agent        // Required
	Tools    ToolRunner   // Required
	Sessions SessionStore // Required

	// Knowledge, when non-nil, is re-ingested from KnowledgeDir before each
	// query so documents dropped into the directory become retrievable
	// without a restart.
	Knowledge    Ingester
	KnowledgeDir string

	TrustProxy bool // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst  int  // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("agent is required")
	}
	if cfg.Tools == nil {
		return nil, errors.New("tool runner is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	qh := &queryHandler{
		logger:       logger,
		agent:        cfg.Agent,
		sessions:     cfg.Sessions,
		knowledge:    cfg.Knowledge,
		knowledgeDir: cfg.KnowledgeDir,
	}
	th := &toolHandler{logger: logger, tools: cfg.Tools}
	sh := &sessionHandler{logger: logger, agent: cfg.Agent, sessions: cfg.Sessions}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/query", qh.query)
	mux.HandleFunc("POST /api/v1/review", qh.review)
	mux.HandleFunc("GET /api/v1/tools", th.list)
	mux.HandleFunc("POST /api/v1/tools/{name}", th.run)
	mux.HandleFunc("POST /api/v1/session/save", sh.save)
	mux.HandleFunc("POST /api/v1/session/load", sh.load)
	mux.HandleFunc("GET /api/v1/history", sh.history)

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack (outermost first):
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID must be before Logging so the header is set for every
	// logged response.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes stay outside the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /healthz", health)
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
