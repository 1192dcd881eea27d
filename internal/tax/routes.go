package tax

import "github.com/go-chi/chi/v5"

func SetupRoutes(r chi.Router, h *Handler) {
	r.Post("/tax/estimate", h.EstimateHandler)
	r.Post("/tax/breakdown", h.BreakdownHandler)
	r.Get("/taxing-bodies", h.TaxingBodiesHandler)
	r.Get("/village-tax-info", h.VillageTaxInfoHandler)
	r.Get("/revenue-estimate", h.RevenueHandler)
}
