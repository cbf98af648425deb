package api

import (
	"log/slog"
	"net/http"

	"github.com/grounder-ai/grounder/internal/session"
)

type sessionHandler struct {
	logger   *slog.Logger
	agent    Agent
	sessions SessionStore
}

type sessionStatusResponse struct {
	Status              string         `json:"status"`
	Message             string         `json:"message"`
	ConversationHistory []session.Turn `json:"conversation_history,omitempty"`
}

// save persists the current conversation history.
func (h *sessionHandler) save(w http.ResponseWriter, _ *http.Request) {
	if err := h.sessions.Save(h.agent.History()); err != nil {
		h.logger.Error("saving session", "error", err)
		writeJSON(w, http.StatusInternalServerError, sessionStatusResponse{
			Status:  "error",
			Message: "Error saving session.",
		})
		return
	}

	writeJSON(w, http.StatusOK, sessionStatusResponse{
		Status:  "success",
		Message: "Session saved successfully.",
	})
}

// load replaces the in-memory history with the persisted session. A missing
// or malformed session file loads as an empty history, never an error.
func (h *sessionHandler) load(w http.ResponseWriter, _ *http.Request) {
	history := h.sessions.Load()
	h.agent.SetHistory(history)

	writeJSON(w, http.StatusOK, sessionStatusResponse{
		Status:              "success",
		Message:             "Session loaded successfully.",
		ConversationHistory: history,
	})
}

type historyResponse struct {
	ConversationHistory []session.Turn `json:"conversation_history"`
}

func (h *sessionHandler) history(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{ConversationHistory: h.agent.History()})
}
