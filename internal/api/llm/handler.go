package llm

import (
	"encoding/json"
	"net/http"
	"strconv"

	chatservice "normatlas/internal/services/chat"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

// Handler serves the completion endpoint and chat history lookups.
type Handler struct {
	service *chatservice.Service
	log     *logger.Logger
}

// New creates the LLM API handler.
func New(service *chatservice.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With("component", "llm_api"),
	}
}

// CompletionRequest is the inbound query payload.
type CompletionRequest struct {
	Input  string `json:"input"`
	UserID string `json:"user_id,omitempty"`
}

// CompletionResponse carries the answer and the tool invocation trace.
type CompletionResponse struct {
	Output            string      `json:"output"`
	IntermediateSteps interface{} `json:"intermediate_steps"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleCompletions answers a free-text query.
// POST /llm/completions {"input": "...", "user_id": "..."}
func (h *Handler) HandleCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	answer, err := h.service.Answer(r.Context(), req.Input, req.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrRateLimitExceeded) {
			writeError(w, http.StatusTooManyRequests, "too many requests, please wait")
			return
		}
		h.log.Errorf("completion failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, CompletionResponse{
		Output:            answer.Text,
		IntermediateSteps: answer.Steps,
	})
}

// HandleHistory returns a user's recent messages, oldest first.
// GET /chat/history?user_id=...&limit=20
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	messages, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, errors.ErrUnavailable) {
			writeError(w, http.StatusNotImplemented, "chat history storage not configured")
			return
		}
		h.log.Errorf("history lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  userID,
		"messages": messages,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
