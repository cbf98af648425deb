package api

import (
	"log/slog"
	"net/http"
)

type toolHandler struct {
	logger *slog.Logger
	tools  ToolRunner
}

type toolListResponse struct {
	Tools []string `json:"tools"`
}

func (h *toolHandler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toolListResponse{Tools: h.tools.Names()})
}

type toolRunRequest struct {
	Input string `json:"input"`
}

type toolRunResponse struct {
	Result string `json:"result"`
}

// run dispatches a single tool directly, outside any agent turn. Unknown
// tools and tool failures surface in the result string, matching dispatch
// semantics inside a turn.
func (h *toolHandler) run(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req toolRunRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid tool request", "tool", name, "error", err)
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, toolRunResponse{
		Result: h.tools.Dispatch(r.Context(), name, req.Input),
	})
}
