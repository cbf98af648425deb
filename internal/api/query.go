package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/grounder-ai/grounder/internal/agent"
	"github.com/grounder-ai/grounder/internal/session"
)

// maxBodyBytes bounds request bodies for all JSON endpoints.
const maxBodyBytes = 1 << 20

type queryHandler struct {
	logger       *slog.Logger
	agent        Agent
	sessions     SessionStore
	knowledge    Ingester
	knowledgeDir string
}

type queryRequest struct {
	Message string `json:"message"`
}

type queryResponse struct {
	Response            string         `json:"response"`
	ConversationHistory []session.Turn `json:"conversation_history"`
}

// query runs one agent turn. The knowledge directory is re-ingested first,
// so documents added since startup become retrievable; the session is saved
// after the turn completes.
func (h *queryHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid query request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	if h.knowledge != nil {
		if !h.knowledge.Initialized() {
			h.logger.Error("collection is not initialized")
			writeJSON(w, http.StatusOK, queryResponse{
				Response:            "Error: Collection is not initialized.",
				ConversationHistory: h.agent.History(),
			})
			return
		}
		if n, err := h.knowledge.Ingest(r.Context(), h.knowledgeDir); err != nil {
			h.logger.Error("re-ingesting knowledge base", "error", err)
		} else if n > 0 {
			h.logger.Info("ingested new documents", "count", n)
		}
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusOK, queryResponse{
			Response:            agent.EmptyQueryMessage,
			ConversationHistory: h.agent.History(),
		})
		return
	}

	h.logger.Info("user query", "message", message)
	answer := h.agent.Answer(r.Context(), message)

	if err := h.sessions.Save(h.agent.History()); err != nil {
		h.logger.Error("saving session", "error", err)
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Response:            answer,
		ConversationHistory: h.agent.History(),
	})
}

type reviewRequest struct {
	// Exactly one of Code or Path should be set; Code wins when both are.
	Code string `json:"code"`
	Path string `json:"path"`
}

type reviewResponse struct {
	Analysis string `json:"analysis"`
}

// review asks the model for a code review of inline text or a source file.
// The result is not recorded in conversation history.
func (h *queryHandler) review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid review request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	var analysis string
	switch {
	case strings.TrimSpace(req.Code) != "":
		analysis = h.agent.ReviewText(r.Context(), req.Code)
	case strings.TrimSpace(req.Path) != "":
		analysis = h.agent.ReviewFile(r.Context(), req.Path)
	default:
		writeError(w, http.StatusBadRequest, "input_required", "code or file path is required")
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{Analysis: analysis})
}

// decodeJSON decodes a size-bounded JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
