package auth

import (
	"github.com/VybCoding/OneWonderLake/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes returns the /auth subrouter.
func SetupRoutes(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	sessions := middleware.SessionMiddleware(SessionInfo{Store: h.store})

	r.Post("/login", h.LoginHandler)
	r.Post("/logout", h.LogoutHandler)
	r.With(sessions).Get("/user", h.MeHandler)
	r.With(sessions).Post("/password", h.UpdatePasswordHandler)

	return r
}
