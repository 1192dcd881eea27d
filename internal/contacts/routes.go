package contacts

import "github.com/go-chi/chi/v5"

func SetupAdminRoutes(r chi.Router, h *Handler) {
	r.Get("/contacts", h.ListHandler)
	r.Post("/contacts", h.CreateHandler)
	r.Get("/contacts/{id}", h.GetHandler)
	r.Patch("/contacts/{id}", h.UpdateHandler)
	r.Delete("/contacts/{id}", h.DeleteHandler)
}
