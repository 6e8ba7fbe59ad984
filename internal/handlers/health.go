package handlers

import (
	"context"
	"net/http"
	"time"

	"PROFILES_BACK-END/internal/dto"
	"PROFILES_BACK-END/internal/storage"
	"PROFILES_BACK-END/internal/utils"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	store storage.Store
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck handles basic health check (no storage access)
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck reports whether the backing document can be read and parsed
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var err error
	if c, ok := h.store.(storage.Checker); ok {
		err = c.Check(ctx)
	} else {
		_, err = h.store.Load(ctx)
	}
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"storage": err.Error()},
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: map[string]any{"storage": "ok"},
	})
}
