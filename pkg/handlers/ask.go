package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/auth"
	"github.com/Ankita1800/chatdb-engine/pkg/services"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question  string `json:"question"`
	DatasetID string `json:"dataset_id"`
}

// AskHandler handles natural-language questions against datasets.
type AskHandler struct {
	service services.AskService
	logger  *zap.Logger
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(service services.AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{service: service, logger: logger}
}

// RegisterRoutes registers the ask route on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /ask", authMiddleware.RequireAuth(h.Ask))
}

// Ask handles POST /ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrInvalidInput))
		return
	}

	datasetID, err := uuid.Parse(req.DatasetID)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid dataset id", apperrors.ErrInvalidInput))
		return
	}

	result, err := h.service.Ask(r.Context(), user.ID, datasetID, req.Question)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}
