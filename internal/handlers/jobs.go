package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openmohaa/rating-api/internal/models"
	"github.com/openmohaa/rating-api/internal/worker"
)

// SubmitJob queues a match for async rating
// @Summary Submit an async rating job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param body body models.MatchRequest true "Teams with ranks"
// @Success 202 {object} models.JobAccepted
// @Failure 503 {object} map[string]string "Queue full or async disabled"
// @Router /ratings/jobs [post]
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Async rating is not configured")
		return
	}

	var req models.MatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.jobs.Submit(r.Context(), &req)
	if errors.Is(err, worker.ErrQueueFull) {
		w.Header().Set("Retry-After", "1")
		h.errorResponse(w, http.StatusServiceUnavailable, "Server overloaded, job "+id+" dropped")
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to submit job", "error", err, "matchId", req.MatchID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to submit job")
		return
	}

	h.jsonResponse(w, http.StatusAccepted, models.JobAccepted{JobID: id, Status: models.JobPending})
}

// GetJob returns the state of an async rating job
// @Summary Poll an async rating job
// @Tags Jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} models.JobResult
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ratings/jobs/{jobId} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Async rating is not configured")
		return
	}

	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	res, err := h.jobs.Result(r.Context(), jobID)
	if errors.Is(err, worker.ErrJobNotFound) {
		h.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to load job", "error", err, "jobId", jobID)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	h.jsonResponse(w, http.StatusOK, res)
}
