package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-manager/docs"
	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/middleware"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Sport      *handlers.SportHandler
	Tournament *handlers.TournamentHandler
	Standings  *handlers.StandingsHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	Prediction *handlers.PredictionHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// Gatherer backs /metrics; the endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizer := middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/health", handlers.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/sports", func(r chi.Router) {
			r.Get("/", h.Sport.ListSports)
			r.With(authenticate, organizer).Post("/", h.Sport.CreateSport)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListTournaments)
			r.With(authenticate, organizer).Post("/", h.Tournament.CreateTournament)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetTournament)
				r.Get("/analytics", h.Tournament.GetAnalytics)
				r.Get("/standings", h.Standings.GetStandings)
				r.With(authenticate, admin).Post("/standings/recount", h.Standings.Recount)
				r.With(authenticate, organizer).Post("/standings/export", h.Standings.Export)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/{teamID}", h.Team.GetTeam)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, organizer)
				r.Post("/", h.Team.RegisterTeam)
				r.Post("/players", h.Team.AddPlayer)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/tournament/{tournamentID}", h.Match.ListByTournament)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, organizer)
				r.Post("/brackets/{tournamentID}", h.Match.GenerateBracket)
				r.Post("/score", h.Match.SubmitScore)
			})
			r.With(authenticate, admin).Post("/{matchID}/correction", h.Match.CorrectScore)
		})

		r.Route("/predictions/match/{matchID}", func(r chi.Router) {
			r.Get("/", h.Prediction.PredictMatch)
			r.Get("/history", h.Prediction.History)
		})
	})

	if h.WebSocket != nil {
		router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
	}

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
