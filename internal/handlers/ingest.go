package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"vitalsd/internal/pipeline"
)

// IngestHandler handles vital-signs reading ingestion via HTTP
type IngestHandler struct {
	orchestrator *pipeline.Orchestrator

	// Max body size (default 1MB)
	maxBodySize int64
}

// IngestConfig holds configuration for the ingest handler
type IngestConfig struct {
	Orchestrator *pipeline.Orchestrator
	MaxBodySize  int64
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(cfg IngestConfig) *IngestHandler {
	maxBodySize := cfg.MaxBodySize
	if maxBodySize == 0 {
		maxBodySize = 1 * 1024 * 1024 // 1MB default
	}

	return &IngestHandler{
		orchestrator: cfg.Orchestrator,
		maxBodySize:  maxBodySize,
	}
}

// IngestResponse is the success response returned to clients
type IngestResponse struct {
	Message   string `json:"message"`
	ReadingID string `json:"reading_id"`
}

// ServeHTTP handles the ingest HTTP request. An ingestion attempt
// terminates in exactly one of two states: 200 with a reading id, or
// 500 with the error's description.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && contentType != "" {
		h.writeError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	result, err := h.orchestrator.Ingest(r.Context(), body)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(IngestResponse{
		Message:   "Recorded successfully",
		ReadingID: result.ReadingID,
	})
}

// writeError writes an error response
func (h *IngestHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
