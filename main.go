package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/address"
	"github.com/VybCoding/OneWonderLake/internal/auth"
	"github.com/VybCoding/OneWonderLake/internal/buildinfo"
	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/VybCoding/OneWonderLake/internal/contacts"
	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/email"
	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/VybCoding/OneWonderLake/internal/geocoding"
	"github.com/VybCoding/OneWonderLake/internal/interest"
	"github.com/VybCoding/OneWonderLake/internal/middleware"
	"github.com/VybCoding/OneWonderLake/internal/questions"
	"github.com/VybCoding/OneWonderLake/internal/tax"
	"github.com/VybCoding/OneWonderLake/internal/webhooks"
	"github.com/VybCoding/OneWonderLake/routes"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	if err := db.Connect(cfg.Database); err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	if err := db.EnsureUUIDExtension(db.DB); err != nil {
		zap.L().Fatal("uuid extension", zap.Error(err))
	}

	auth.Init()
	address.Init()
	interest.Init()
	questions.Init()
	contacts.Init()
	email.Init()

	boundaries, err := geo.DefaultBoundaries()
	if err != nil {
		zap.L().Fatal("loading boundaries", zap.Error(err))
	}
	rates, err := tax.DefaultRates()
	if err != nil {
		zap.L().Fatal("loading tax rates", zap.Error(err))
	}

	addressStore := address.NewGormStore(db.DB)
	checker := address.NewChecker(
		geocoding.NewClient(cfg.Geocoder),
		geo.NewClassifier(boundaries),
		addressStore,
		cfg.Geocoder.CheckDelay,
	)

	mailStore := email.NewGormStore(db.DB)
	var sender email.Sender
	var fetcher email.Fetcher
	if cfg.Email.Enabled() {
		rc := email.NewResendClient(cfg.Email.ResendBaseURL, cfg.Email.ResendAPIKey, 15*time.Second)
		sender, fetcher = rc, rc
	} else {
		zap.L().Warn("RESEND_API_KEY not set; outbound email disabled")
	}
	mailer := email.NewMailer(cfg.Email, sender, fetcher, mailStore)

	limiter := middleware.NewSubmissionLimiter(cfg.Submissions.Limit, cfg.Submissions.Window)

	authStore := auth.NewGormStore(db.DB)
	interestStore := interest.NewGormStore(db.DB)
	questionStore := questions.NewGormStore(db.DB)
	siteURL := cfg.Server.PublicSiteURL

	router := routes.NewRouter(routes.Deps{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Sessions:       auth.SessionInfo{Store: authStore},
		Limiter:        limiter,
		Auth:           auth.NewHandler(authStore, cfg.Server.SessionTTL, cfg.Server.CookieSecure),
		Address:        address.NewHandler(checker, addressStore),
		Tax:            tax.NewHandler(rates),
		Interest:       interest.NewHandler(interestStore, mailer, siteURL),
		Unsubscribe:    interest.NewUnsubscribe(interestStore, questionStore),
		Questions:      questions.NewHandler(questionStore, mailer, siteURL),
		Contacts:       contacts.NewHandler(contacts.NewGormStore(db.DB)),
		Email:          email.NewHandler(mailer, mailStore),
		Webhooks:       webhooks.NewHandler(cfg.Email.WebhookSecret, mailer),
		BuildInfo:      buildinfo.NewHandler(buildinfo.Load(buildinfo.Candidates(cfg.Server.BuildInfoPath), time.Now())),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweep(ctx, limiter, cfg.Submissions.Window)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("shutdown", zap.Error(err))
	}
}

// sweep drops expired limiter windows until ctx ends.
func sweep(ctx context.Context, l *middleware.SubmissionLimiter, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}
