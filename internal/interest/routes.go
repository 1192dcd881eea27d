package interest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the public signup and unsubscribe endpoints. limit
// guards the signup form.
func SetupRoutes(r chi.Router, h *Handler, u *Unsubscribe, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/interested", h.SubmitHandler)

	r.Post("/unsubscribe", u.UnsubscribeHandler)
	r.Get("/unsubscribe/validate", u.ValidateHandler)
}

func SetupAdminRoutes(r chi.Router, h *Handler) {
	r.Get("/interested", h.ListHandler)
	r.Get("/interested/export", h.ExportHandler)
	r.Delete("/interested/{id}", h.DeleteHandler)
}
