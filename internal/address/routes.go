package address

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the public address endpoints under the /api router.
func SetupRoutes(r chi.Router, h *Handler) {
	r.Post("/address/check", h.CheckHandler)
	r.Post("/address/select", h.SelectHandler)
	r.Get("/address/classify", h.ClassifyHandler)
	r.Get("/boundaries/{kind}", h.BoundaryHandler)
	r.Post("/searched-address", h.RecordSearchedHandler)
}

// SetupAdminRoutes registers endpoints that sit behind the admin guard.
func SetupAdminRoutes(r chi.Router, h *Handler) {
	r.Get("/searched-addresses", h.ListSearchesHandler)
	r.Get("/map-data", h.MapDataHandler)
}
