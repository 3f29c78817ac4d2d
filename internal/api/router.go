package api

import (
	"net/http"

	"github.com/frbcapl/pool-league-backend/internal/api/handlers"
	"github.com/frbcapl/pool-league-backend/internal/api/middleware"
	"github.com/frbcapl/pool-league-backend/internal/service"
	"github.com/frbcapl/pool-league-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	challengeHandler := handlers.NewChallengeHandler(services.Challenge, services.Eligibility, services.Stats)
	adminHandler := handlers.NewAdminHandler(services.Stats, services.Season)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Challenge engine routes (the client-visible contract)
		r.Route("/challenges", func(r chi.Router) {
			r.Post("/validate", challengeHandler.Validate)
			r.Post("/validate-defense", challengeHandler.ValidateDefense)
			r.Get("/stats/{player}/{division}", challengeHandler.GetStats)
			r.Get("/limits/{player}/{division}", challengeHandler.GetLimits)
			r.Get("/eligible-opponents/{player}/{division}", challengeHandler.GetEligibleOpponents)
			r.Get("/player/{player}/{division}", challengeHandler.ListForPlayer)

			// Lifecycle
			r.Post("/", challengeHandler.Issue)
			r.Get("/{id}", challengeHandler.Get)
			r.Post("/{id}/accept", challengeHandler.Accept)
			r.Post("/{id}/decline", challengeHandler.Decline)
			r.Post("/{id}/complete", challengeHandler.Complete)

			// Privileged path
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Use(middleware.RequireAdmin)
				r.Get("/division-stats/{division}", adminHandler.GetDivisionStats)
				r.Put("/stats/{player}/{division}", adminHandler.UpdateStats)
				r.Delete("/division-stats/{division}", adminHandler.ResetDivisionStats)
			})
		})

		// Admin division management
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Use(middleware.RequireAdmin)
			r.Put("/divisions/{division}/phase", adminHandler.SetPhase)
			r.Put("/divisions/{division}/standings", adminHandler.UpdateStandings)
		})

		// Division event feed
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
