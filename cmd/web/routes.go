package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/AdamBeresnev/tourney-api/internal/logging"
	"github.com/AdamBeresnev/tourney-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func newRouter(app *application, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Outside the session middleware, its response writer cannot be hijacked
	r.Get("/ws/tournaments/{id}", app.serveWS)

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.LoadAndSave)
		r.Use(middleware.LoadUser(app.sessions, app.userStore))

		r.Get("/tournaments/{id}/bracket", app.bracketPage)
		r.Route("/api", app.apiRoutes)
	})

	return r
}

func (app *application) apiRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.register)
		r.Post("/login", app.login)
		r.Post("/logout", app.logout)
		r.With(middleware.RequireAuth).Get("/me", app.me)
		r.Get("/{provider}", app.beginOAuth)
		r.Get("/{provider}/callback", app.completeOAuth)
	})

	// Public reads
	r.Get("/users/check-username", app.checkUsername)
	r.Get("/teams", app.listTeams)
	r.Get("/teams/{id}", app.getTeam)
	r.Get("/tournaments", app.listTournaments)
	r.Get("/tournaments/{id}", app.getTournament)
	r.Get("/tournaments/{id}/matches", app.listMatches)
	r.Get("/matches/{id}", app.getMatch)
	r.Get("/scoreboard/teams", app.teamRankings)
	r.Get("/scoreboard/players", app.playerRankings)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/users", app.listUsers)
		r.Get("/users/me", app.me)
		r.Put("/users/me", app.updateProfile)
		r.Get("/users/{id}", app.getUser)
		r.Get("/users/{id}/teams", app.userTeams)
		r.Get("/users/{id}/matches", app.userMatches)

		r.Post("/teams", app.createTeam)
		r.Put("/teams/{id}", app.renameTeam)
		r.Delete("/teams/{id}", app.deleteTeam)
		r.Post("/teams/{id}/players", app.addPlayer)
		r.Put("/teams/{id}/players/{playerID}", app.updatePlayer)
		r.Delete("/teams/{id}/players/{playerID}", app.deletePlayer)
		r.Post("/teams/{id}/invite", app.invitePlayer)
		r.Post("/invitations/{playerID}/respond", app.respondToInvitation)

		r.Post("/tournaments", app.createTournament)
		r.Put("/tournaments/{id}", app.updateTournament)
		r.Delete("/tournaments/{id}", app.deleteTournament)
		r.Post("/tournaments/{id}/join", app.joinTournament)
		r.Delete("/tournaments/{id}/teams/{teamID}", app.leaveTournament)
		r.Post("/tournaments/{id}/start", app.startTournament)
		r.Post("/tournaments/{id}/check-completed", app.checkCompleted)

		r.Put("/matches/{id}/score", app.updateScore)

		r.Get("/notifications", app.listNotifications)
		r.Put("/notifications/{id}/read", app.markNotificationRead)
	})
}
