package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/water-potability/internal/config"
	"github.com/kartoza/water-potability/internal/models"
	"github.com/kartoza/water-potability/internal/potability"
	"github.com/kartoza/water-potability/internal/predict"
)

// maxBodyBytes bounds a prediction request body.
const maxBodyBytes = 64 << 10

// Handler provides HTTP API endpoints
type Handler struct {
	svc    *predict.Service
	cfg    config.Config
	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc *predict.Service, cfg config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Input schema and prediction
	r.HandleFunc("/fields", h.handleListFields).Methods("GET")
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("error encoding response", zap.Error(err))
	}
}

// respondError sends a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":    h.cfg.Version,
		"decoration": h.cfg.Decoration.AnimationURL != "",
	}
	if h.svc != nil {
		info["model"] = h.svc.Generator().Info()
	}
	h.respondJSON(w, http.StatusOK, info)
}

// handleListFields returns the input field descriptors
func (h *Handler) handleListFields(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, potability.Fields)
}

// handlePredict runs one prediction for the posted measurements
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no model configured")
		return
	}

	var req models.PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := req.Measurements()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.svc.Predict(r.Context(), m)
	resp := models.PredictResponse{
		RequestID:    res.RequestID,
		Measurements: res.Measurements,
		Blocks:       res.Blocks,
		Model:        res.Outcome.Model,
		LatencyMs:    res.Outcome.Latency.Milliseconds(),
	}

	if !res.Outcome.OK() {
		resp.Error = res.Outcome.Err.Error()
		h.respondJSON(w, http.StatusBadGateway, resp)
		return
	}

	resp.Completion = res.Outcome.Text
	resp.Parsed = &res.Parsed
	h.respondJSON(w, http.StatusOK, resp)
}
