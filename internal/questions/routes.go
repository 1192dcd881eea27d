package questions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, h *Handler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/questions", h.SubmitHandler)

	r.Get("/dynamic-faqs", h.ListFaqsHandler)
	r.Get("/dynamic-faqs/search", h.SearchFaqsHandler)
	r.Post("/dynamic-faqs/{id}/view", h.ViewFaqHandler)
}

func SetupAdminRoutes(r chi.Router, h *Handler) {
	r.Get("/questions", h.ListQuestionsHandler)
	r.Patch("/questions/{id}/answer", h.AnswerHandler)
	r.Post("/questions/{id}/publish", h.PublishHandler)
	r.Delete("/questions/{id}", h.DeleteQuestionHandler)

	r.Post("/faqs", h.CreateFaqHandler)
	r.Delete("/faqs/{id}", h.DeleteFaqHandler)
	r.Patch("/faqs/{id}/not-new", h.MarkFaqNotNewHandler)
}
