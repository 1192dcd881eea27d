package email

import "github.com/go-chi/chi/v5"

// SetupAdminRoutes registers the mail console under the admin group.
func SetupAdminRoutes(r chi.Router, h *Handler) {
	r.Get("/emails", h.ListEmailsHandler)
	r.Get("/emails/related/{type}/{id}", h.RelatedEmailsHandler)
	r.Post("/emails/send", h.SendHandler)

	r.Get("/inbox", h.InboxHandler)
	r.Get("/inbox/{id}", h.InboxItemHandler)
	r.Post("/inbox/{id}/reply", h.ReplyHandler)
	r.Delete("/inbox/{id}", h.DeleteInboxHandler)

	r.Get("/email-usage", h.UsageHandler)
	r.Post("/email-usage/shutoff", h.ShutoffHandler)
}
