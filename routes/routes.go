package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/petanque-voyages/booking-system/handlers"
	"github.com/petanque-voyages/booking-system/middleware"
)

// SetupRoutes mounts the public site API, the websocket feed and the
// password-protected back office on the given router.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	tracker *middleware.VisitorTracker,
	authHandler *handlers.AuthHandler,
	programHandler *handlers.ProgramHandler,
	reservationHandler *handlers.ReservationHandler,
	reviewHandler *handlers.ReviewHandler,
	visitorHandler *handlers.VisitorHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/login", authHandler.Login)

	// Public site. Every hit here feeds the visitor log.
	router.Group(func(r chi.Router) {
		r.Use(tracker.Track)

		r.Get("/programs", programHandler.ListPublic)
		r.Get("/programs/{programID}", programHandler.Get)
		r.Post("/reservations", reservationHandler.Submit)
		r.Get("/reviews", reviewHandler.ListPublic)
		r.Post("/reviews", reviewHandler.Submit)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.List)
			r.Get("/{tournamentID}", tournamentHandler.Overview)
			r.Get("/{tournamentID}/matches", tournamentHandler.ListMatches)
			r.Get("/{tournamentID}/standings", tournamentHandler.ListStandings)
			r.Get("/{tournamentID}/teams", teamHandler.List)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	// Back office.
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)

		r.Get("/programs", programHandler.ListAll)
		r.Post("/programs", programHandler.Create)
		r.Put("/programs/{programID}", programHandler.Update)
		r.Delete("/programs/{programID}", programHandler.Delete)
		r.Post("/programs/{programID}/image", programHandler.UploadImage)

		r.Get("/reservations", reservationHandler.List)
		r.Patch("/reservations/{reservationID}/status", reservationHandler.UpdateStatus)
		r.Delete("/reservations/{reservationID}", reservationHandler.Delete)

		r.Get("/reviews", reviewHandler.ListAll)
		r.Patch("/reviews/{reviewID}/published", reviewHandler.SetPublished)
		r.Delete("/reviews/{reviewID}", reviewHandler.Delete)

		r.Get("/visitors", visitorHandler.List)
		r.Get("/visitors/stats", visitorHandler.Stats)

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournamentHandler.Create)
			r.Post("/{tournamentID}/pools/generate", tournamentHandler.GeneratePools)
			r.Post("/{tournamentID}/knockout/generate", tournamentHandler.GenerateKnockout)
			r.Patch("/{tournamentID}/matches/{matchID}", tournamentHandler.UpdateMatch)

			r.Post("/{tournamentID}/teams", teamHandler.Register)
			r.Put("/{tournamentID}/teams/{teamID}", teamHandler.Update)
			r.Delete("/{tournamentID}/teams/{teamID}", teamHandler.Delete)
			r.Post("/{tournamentID}/teams/{teamID}/photo", teamHandler.UploadPhoto)
		})
	})
}
