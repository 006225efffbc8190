package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bist-screener/internal/report"
	"bist-screener/internal/scheduler"
	"bist-screener/pkg/logger"
)

// StatusHandler serves scheduler state and stored signals.
type StatusHandler struct {
	scheduler *scheduler.Scheduler
	repo      *report.Repository
	logger    *logger.Logger
}

// NewStatusHandler creates a new status handler. repo may be nil when
// persistence is disabled.
func NewStatusHandler(sched *scheduler.Scheduler, repo *report.Repository, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		scheduler: sched,
		repo:      repo,
		logger:    log,
	}
}

// GetJobs returns stats for every registered job
// GET /api/jobs
func (h *StatusHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": h.scheduler.Stats(),
	})
}

// TriggerJob runs a job outside its schedule
// POST /api/jobs/{name}/run
func (h *StatusHandler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.scheduler.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.WithField("job", name).Info("Job triggered manually")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "triggered",
		"job":    name,
	})
}

// GetSignals returns the most recent stored signals
// GET /api/signals?limit=20
func (h *StatusHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	signals, err := h.repo.LatestSignals(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get stored signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(signals),
		"signals": signals,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
