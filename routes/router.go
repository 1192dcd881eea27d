package routes

import (
	"fmt"
	"net/http"

	"github.com/VybCoding/OneWonderLake/internal/address"
	"github.com/VybCoding/OneWonderLake/internal/auth"
	"github.com/VybCoding/OneWonderLake/internal/buildinfo"
	"github.com/VybCoding/OneWonderLake/internal/contacts"
	"github.com/VybCoding/OneWonderLake/internal/email"
	"github.com/VybCoding/OneWonderLake/internal/interest"
	"github.com/VybCoding/OneWonderLake/internal/middleware"
	"github.com/VybCoding/OneWonderLake/internal/questions"
	"github.com/VybCoding/OneWonderLake/internal/tax"
	"github.com/VybCoding/OneWonderLake/internal/webhooks"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP surface needs. Every handler is required.
type Deps struct {
	AllowedOrigins []string
	Sessions       auth.SessionInfo
	Limiter        *middleware.SubmissionLimiter

	Auth        *auth.Handler
	Address     *address.Handler
	Tax         *tax.Handler
	Interest    *interest.Handler
	Unsubscribe *interest.Unsubscribe
	Questions   *questions.Handler
	Contacts    *contacts.Handler
	Email       *email.Handler
	Webhooks    *webhooks.Handler
	BuildInfo   *buildinfo.Handler
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())

	session := middleware.SessionMiddleware(d.Sessions)
	admin := middleware.AdminMiddleware(d.Sessions)

	r.Route("/api", func(r chi.Router) {
		address.SetupRoutes(r, d.Address)
		tax.SetupRoutes(r, d.Tax)
		interest.SetupRoutes(r, d.Interest, d.Unsubscribe, d.Limiter.Middleware)
		questions.SetupRoutes(r, d.Questions, d.Limiter.Middleware)
		r.Get("/build-info", d.BuildInfo.BuildInfoHandler)

		r.Mount("/auth", auth.SetupRoutes(d.Auth))
		r.Mount("/webhooks", webhooks.SetupRoutes(d.Webhooks))

		r.Route("/admin", func(r chi.Router) {
			r.With(session).Get("/check", d.Auth.AdminCheckHandler)

			r.Group(func(r chi.Router) {
				r.Use(session, admin)
				address.SetupAdminRoutes(r, d.Address)
				interest.SetupAdminRoutes(r, d.Interest)
				questions.SetupAdminRoutes(r, d.Questions)
				contacts.SetupAdminRoutes(r, d.Contacts)
				email.SetupAdminRoutes(r, d.Email)
			})
		})
	})

	return r
}
