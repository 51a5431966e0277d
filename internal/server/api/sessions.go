package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/fingercount/internal/store"
)

// DefaultResultLimit caps /results when no limit is given.
const DefaultResultLimit = 100

// SessionHandler handles HTTP requests for recorded sessions.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	ID             string         `json:"id"`
	CameraID       int            `json:"camera_id"`
	ClusterRadius  float64        `json:"cluster_radius"`
	AngleThreshold float64        `json:"angle_threshold_degrees"`
	Frames         int            `json:"frames"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	Histogram      map[string]int `json:"histogram,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type listResultsResponse struct {
	Results []store.FrameRecord `json:"results"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:             s.ID,
		CameraID:       s.CameraID,
		ClusterRadius:  s.ClusterRadius,
		AngleThreshold: s.AngleThreshold,
		Frames:         s.Frames,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
	}
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and /api/sessions/{id}/results.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "results" && r.Method == http.MethodGet:
		h.results(w, r, id)
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case sub == "" || sub == "results":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and includes the finger count histogram.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	hist, err := h.store.Frames().Histogram(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get histogram")
		return
	}

	response := toSessionResponse(sess)
	response.Histogram = make(map[string]int, len(hist))
	for count, frames := range hist {
		response.Histogram[strconv.Itoa(count)] = frames
	}

	writeJSON(w, http.StatusOK, response)
}

// results handles GET /api/sessions/{id}/results?limit=N.
func (h *SessionHandler) results(w http.ResponseWriter, r *http.Request, id string) {
	limit := DefaultResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	records, err := h.store.Frames().ListBySession(id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}
	if records == nil {
		records = []store.FrameRecord{}
	}

	writeJSON(w, http.StatusOK, listResultsResponse{Results: records})
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
