package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"
)

// Routes mounts every endpoint on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/swagger/doc.json", h.SwaggerDoc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", h.ListPresets)
		r.Route("/ratings", func(r chi.Router) {
			r.Post("/rate", h.RateMatch)
			r.Post("/quality", h.MatchQuality)
			r.Post("/batch", h.RateBatch)
			r.Post("/jobs", h.SubmitJob)
			r.Get("/jobs/{jobId}", h.GetJob)
		})
	})

	return r
}

// SwaggerDoc serves the registered OpenAPI document.
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.logger.Errorw("Failed to read swagger doc", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "API documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
