package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bist-screener/internal/scheduler"
	"bist-screener/pkg/logger"
)

type noopJob struct{}

func (noopJob) Name() string                  { return "daily-screen" }
func (noopJob) Schedule() string              { return "0 15 18 * * 1-5" }
func (noopJob) Run(ctx context.Context) error { return nil }

func newTestHandler(t *testing.T) *StatusHandler {
	t.Helper()

	sched := scheduler.New(logger.NewNop(), time.UTC)
	require.NoError(t, sched.AddJob(noopJob{}))

	return NewStatusHandler(sched, nil, logger.NewNop())
}

func newTestRouter(h *StatusHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/jobs", h.GetJobs).Methods("GET")
	r.HandleFunc("/api/jobs/{name}/run", h.TriggerJob).Methods("POST")
	r.HandleFunc("/api/signals", h.GetSignals).Methods("GET")
	return r
}

func TestGetJobs(t *testing.T) {
	router := newTestRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Jobs []scheduler.JobStats `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "daily-screen", body.Jobs[0].Name)
	assert.Equal(t, "0 15 18 * * 1-5", body.Jobs[0].Schedule)
}

func TestTriggerJob(t *testing.T) {
	router := newTestRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/daily-screen/run", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestTriggerJobUnknown(t *testing.T) {
	router := newTestRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/nope/run", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSignalsWithoutPersistence(t *testing.T) {
	router := newTestRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signals", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
