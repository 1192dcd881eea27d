package webhooks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Public routes; authenticity comes from the signature.
	r.Post("/resend/inbound", h.ResendInboundWebhook)

	return r
}
