package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/outreach"
	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// outreachEngine is the slice of the engine the HTTP layer drives.
type outreachEngine interface {
	Refresh(ctx context.Context, snaps []customer.RiskSnapshot) (outreach.ReconcileResult, error)
	Start()
	Stop()
	UpdateConfig(patch outreach.ConfigPatch) (outreach.Config, error)
	RemoveCustomer(customerID string) bool
	CompleteSession(ctx context.Context, sessionID string) bool
	Status() outreach.Status
	Running() bool
}

// OutreachHandler exposes the scheduling engine's operations over HTTP.
type OutreachHandler struct {
	engine outreachEngine
	logger *logging.Logger
}

// NewOutreachHandler creates the outreach control handler.
func NewOutreachHandler(engine outreachEngine, logger *logging.Logger) *OutreachHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &OutreachHandler{engine: engine, logger: logger}
}

type refreshRequest struct {
	Customers []customer.RiskSnapshot `json:"customers"`
}

// Refresh reconciles the outreach queue, optionally against a caller-supplied
// customer list. With an empty body the system of record is consulted.
func (h *OutreachHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var snaps []customer.RiskSnapshot

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body too large")
		return
	}
	if len(body) > 0 {
		var req refreshRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		snaps = req.Customers
	}

	result, err := h.engine.Refresh(r.Context(), snaps)
	if err != nil {
		h.logger.Error("refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Start begins autonomous scheduling.
func (h *OutreachHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.engine.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"running": true})
}

// Stop halts autonomous scheduling.
func (h *OutreachHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.engine.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"running": false})
}

// UpdateConfig merges a partial scheduler configuration.
func (h *OutreachHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch outreach.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := h.engine.UpdateConfig(patch)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Status reports queue, sessions, config and derived stats.
func (h *OutreachHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()
	writeJSON(w, http.StatusOK, status)
}

// RemoveCustomer force-drops a queue entry.
func (h *OutreachHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer id is required")
		return
	}
	if !h.engine.RemoveCustomer(customerID) {
		writeError(w, http.StatusNotFound, "customer not queued")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteSession releases an active session's admission slot.
func (h *OutreachHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.engine.CompleteSession(r.Context(), sessionID) {
		writeError(w, http.StatusNotFound, "session not active")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": sessionID, "status": "completed"})
}

// HealthCheck reports liveness plus whether the loop is running.
func (h *OutreachHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": h.engine.Running(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
