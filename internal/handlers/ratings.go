package handlers

import (
	"fmt"
	"net/http"

	"github.com/openmohaa/rating-api/internal/models"
)

// RateMatch computes posterior ratings for a finished match
// @Summary Rate a match
// @Tags Ratings
// @Accept json
// @Produce json
// @Param body body models.MatchRequest true "Teams with ranks"
// @Success 200 {object} models.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Numeric failure or no convergence"
// @Router /ratings/rate [post]
func (h *Handler) RateMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.ratings.Rate(r.Context(), &req)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, res)
}

// MatchQuality scores how evenly matched the teams are
// @Summary Match quality
// @Tags Ratings
// @Accept json
// @Produce json
// @Param body body models.MatchRequest true "Teams (ranks ignored)"
// @Success 200 {object} models.QualityResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /ratings/quality [post]
func (h *Handler) MatchQuality(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.ratings.Quality(r.Context(), &req)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, res)
}

// RateBatch rates independent matches in parallel
// @Summary Rate a batch of matches
// @Tags Ratings
// @Accept json
// @Produce json
// @Param body body models.BatchRequest true "Matches"
// @Success 200 {object} models.BatchResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /ratings/batch [post]
func (h *Handler) RateBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Matches) > h.maxBatchSize {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Batch holds %d matches, limit is %d", len(req.Matches), h.maxBatchSize))
		return
	}

	h.jsonResponse(w, http.StatusOK, h.ratings.RateBatch(r.Context(), req.Matches))
}

// ListPresets returns the configured game presets
// @Summary List game presets
// @Tags Ratings
// @Produce json
// @Success 200 {array} models.PresetOutput
// @Router /presets [get]
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.ratings.Presets())
}
