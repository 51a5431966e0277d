package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/fingercount/internal/fingers"
)

// CounterSettings reads and updates the live counter configuration.
type CounterSettings interface {
	CounterConfig() fingers.Config
	SetCounterConfig(fingers.Config) error
}

// SettingsHandler handles GET and PUT on /api/settings.
type SettingsHandler struct {
	counter CounterSettings
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(c CounterSettings) *SettingsHandler {
	return &SettingsHandler{counter: c}
}

// updateSettingsRequest holds a partial update; absent fields keep their value.
type updateSettingsRequest struct {
	ClusterRadius         *float64 `json:"cluster_radius"`
	AngleThresholdDegrees *float64 `json:"angle_threshold_degrees"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.counter.CounterConfig())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cfg := h.counter.CounterConfig()
	if req.ClusterRadius != nil {
		cfg.ClusterRadius = *req.ClusterRadius
	}
	if req.AngleThresholdDegrees != nil {
		cfg.AngleThresholdDegrees = *req.AngleThresholdDegrees
	}

	if err := h.counter.SetCounterConfig(cfg); err != nil {
		if errors.Is(err, fingers.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, h.counter.CounterConfig())
}
