package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/queuedesk/queuedesk-backend/api/controllers"
	"github.com/queuedesk/queuedesk-backend/api/middleware"
	"github.com/queuedesk/queuedesk-backend/internal/applicants"
	"github.com/queuedesk/queuedesk-backend/internal/auth"
	"github.com/queuedesk/queuedesk-backend/internal/queue"
	"github.com/queuedesk/queuedesk-backend/internal/slots"
	"github.com/queuedesk/queuedesk-backend/internal/tokens"
	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
	"github.com/queuedesk/queuedesk-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	applicantsService applicants.Service,
	authService auth.Service,
	slotsService slots.Service,
	tokensService tokens.Service,
	queueService queue.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginAadhaarLimit,
	)
	verifyPolicy := middleware.NewRateLimitPolicy(
		"verify-finish",
		cfg.RateLimit.VerifyWindow,
		cfg.RateLimit.VerifyIPLimit,
		cfg.RateLimit.VerifyUserLimit,
	)

	var redisPinger db.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	metricsHandler := promhttp.Handler()
	if metricsRegistry != nil {
		metricsHandler = promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{})
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", controllers.RegisterApplicant(applicantsService, logg))
		r.With(middleware.LoginRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))

		r.Get("/slots/availability", controllers.SlotAvailability(slotsService, logg))

		// Identity is proven with Aadhaar plus token number, not a login.
		r.Post("/tokens/cancel", controllers.CancelToken(tokensService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/users/me", controllers.ApplicantMe(applicantsService, logg))
			r.Post("/slots/select", controllers.SelectSlot(slotsService, logg))
			r.Post("/tokens", controllers.IssueToken(tokensService, logg))
			r.Get("/tokens/active", controllers.ActiveToken(tokensService, logg))
			r.Post("/tokens/finish-request", controllers.RequestFinish(tokensService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))

				r.With(middleware.UserRateLimit(verifyPolicy, redisClient, logg)).
					Post("/tokens/verify-finish", controllers.VerifyFinish(tokensService, logg))
				r.Get("/applications", controllers.ListApplications(queueService, logg))
				r.Get("/applications/next", controllers.NextApplication(queueService, logg))
				r.Get("/slots/queue", controllers.SlotQueue(queueService, logg))
				r.Get("/stats/today", controllers.TodayStats(queueService, logg))
			})
		})
	})

	return r
}
