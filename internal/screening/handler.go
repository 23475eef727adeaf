package screening

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// Handler wires HTTP requests to the turn service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a screening handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Turn handles POST /screening/turn.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode turn request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Turn(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionFinished):
		http.Error(w, "Session is already finished; start a new session", http.StatusConflict)
	case errors.Is(err, ErrMissingInitialData),
		errors.Is(err, ErrMissingReply),
		errors.Is(err, ErrInvalidInitialData),
		errors.Is(err, ErrInvalidState):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrOracleUnavailable):
		http.Error(w, "Screening assistant is temporarily unavailable, please retry", http.StatusBadGateway)
	default:
		h.logger.Error("failed to process turn", "error", err)
		http.Error(w, "Failed to process turn", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
