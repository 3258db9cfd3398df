package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/apperrors"
	"github.com/Ankita1800/chatdb-engine/pkg/auth"
	"github.com/Ankita1800/chatdb-engine/pkg/models"
	"github.com/Ankita1800/chatdb-engine/pkg/services"
)

// maxUploadBytes caps a single CSV upload at 50 MB.
const maxUploadBytes = 50 << 20

// DatasetsHandler handles dataset upload, listing, deletion and history.
type DatasetsHandler struct {
	service services.DatasetService
	logger  *zap.Logger
}

// NewDatasetsHandler creates a new DatasetsHandler.
func NewDatasetsHandler(service services.DatasetService, logger *zap.Logger) *DatasetsHandler {
	return &DatasetsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the dataset routes on the given mux. All routes
// require authentication.
func (h *DatasetsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /upload", authMiddleware.RequireAuth(h.Upload))
	mux.HandleFunc("GET /datasets", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("DELETE /datasets/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("GET /datasets/{id}/history", authMiddleware.RequireAuth(h.History))
}

// Upload handles POST /upload with a multipart CSV file.
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid multipart form: %v", apperrors.ErrInvalidInput, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: missing file field", apperrors.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	result, err := h.service.Upload(r.Context(), user.ID, services.UploadRequest{
		Filename: header.Filename,
		Data:     data,
		Reuse:    parseBoolField(r, "reuse"),
		Force:    parseBoolField(r, "force_upload"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	switch {
	case result.Duplicate:
		_ = WriteJSON(w, http.StatusOK, map[string]any{
			"duplicate":        true,
			"existing_dataset": result.Dataset,
		})
	case result.Reused:
		_ = WriteJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"reused":       true,
			"dataset_id":   result.Dataset.ID,
			"dataset_name": result.Dataset.DatasetName,
			"table_name":   result.Dataset.TableName,
			"columns":      result.Dataset.ColumnNames,
			"row_count":    result.Dataset.RowCount,
		})
	default:
		_ = WriteJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			"dataset_id":      result.Dataset.ID,
			"dataset_name":    result.Dataset.DatasetName,
			"table_name":      result.Dataset.TableName,
			"columns":         result.Dataset.ColumnNames,
			"row_count":       result.Dataset.RowCount,
			"file_size_bytes": result.Dataset.SizeBytes,
		})
	}
}

// List handles GET /datasets.
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	datasets, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"datasets": datasets})
}

// Delete handles DELETE /datasets/{id}.
func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid dataset id", apperrors.ErrInvalidInput))
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// History handles GET /datasets/{id}/history.
func (h *DatasetsHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid dataset id", apperrors.ErrInvalidInput))
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, h.logger, fmt.Errorf("%w: invalid limit", apperrors.ErrInvalidInput))
			return
		}
	}

	records, err := h.service.History(r.Context(), user.ID, id, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if records == nil {
		records = []*models.QueryRecord{}
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"history": records})
}

// parseBoolField reads a multipart form boolean; "true" and "1" are true.
func parseBoolField(r *http.Request, name string) bool {
	v := r.FormValue(name)
	return v == "true" || v == "1"
}
