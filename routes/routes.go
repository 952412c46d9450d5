package routes

import (
	"net/http"

	"github.com/clubsport/competition-system/handlers"
	"github.com/clubsport/competition-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	competitionHandler *handlers.CompetitionHandler,
	matchHandler *handlers.MatchHandler,
	jwtSecret []byte,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/competitions/{competitionID}", func(r chi.Router) {
		// Public read routes
		r.Get("/", competitionHandler.GetByIDHandler)
		r.Get("/standings", competitionHandler.GetStandingsHandler)
		r.Get("/topscorers", competitionHandler.GetTopScorersHandler)
		r.Get("/matches", competitionHandler.ListMatchesHandler)

		// Organizer-only scheduling operations
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize("organizer", "admin"))

			r.Post("/fixtures", competitionHandler.GenerateFixturesHandler)
			r.Post("/draw", competitionHandler.PerformDrawHandler)
			r.Post("/standings/recalculate", competitionHandler.RecalculateStandingsHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize("organizer", "admin"))

		r.Post("/matches/{matchID}/result", matchHandler.RecordResultHandler)
	})
}
