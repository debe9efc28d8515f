package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/reservations-api/internal/application/reservation"
	"github.com/reservations-api/internal/application/verification"
	"github.com/reservations-api/internal/config"
	"github.com/reservations-api/internal/transport/http/handler"
	appmiddleware "github.com/reservations-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// A general per-IP throttle on everything, plus a much stricter one on
	// code issuance so a single address cannot burn through the SMS budget.
	generalRL := appmiddleware.NewRateLimiter(rate.Limit(10), 20)
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(0.2), 5)
	r.Use(generalRL.Limit)

	verifySvc := verification.NewService(deps.Verifications, deps.Notifier,
		cfg.CodeTTL, cfg.SendCooldown, cfg.VerifiedTTL)
	resSvc := reservation.NewService(deps.ReservationRepo, deps.LockRepo,
		deps.Verifications, deps.Notifier, cfg.RestaurantTZ)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(verifySvc)
	resH := handler.NewReservationHandler(resSvc)

	r.Get("/health", healthH.Ping)
	r.With(otpRL.Limit).Post("/otp/request", otpH.RequestCode)
	r.With(otpRL.Limit).Post("/otp/verify", otpH.VerifyCode)
	r.Post("/reservations", resH.Create)
	r.Get("/reservations/{phone}", resH.ListByPhone)
	r.Patch("/reservations/{id}/cancel", resH.Cancel)

	return r
}
