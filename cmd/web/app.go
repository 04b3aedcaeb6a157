package main

import (
	"net/http"
	"slices"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/live"
	"github.com/AdamBeresnev/tourney-api/internal/middleware"
	"github.com/AdamBeresnev/tourney-api/internal/service"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
)

// application holds the services shared by every handler.
type application struct {
	sessions *scs.SessionManager
	hub      *live.Hub

	// where OAuth callbacks send the browser after login
	loginRedirect string
	upgrader      websocket.Upgrader

	userStore     *store.UserStore
	users         *service.UserService
	teams         *service.TeamService
	tournaments   *service.TournamentService
	matches       *service.MatchService
	rankings      *service.RankingService
	notifications *service.NotificationService
}

func newApplication(cfg *config.Config, database *sqlx.DB, sessionManager *scs.SessionManager, hub *live.Hub) *application {
	tournamentStore := store.NewTournamentStore(database)
	teamStore := store.NewTeamStore(database)
	userStore := store.NewUserStore(database)
	notifications := service.NewNotificationService(store.NewNotificationStore(database))
	locks := service.NewTournamentLocks()

	matches := service.NewMatchService(database, tournamentStore, teamStore, locks)
	matches.SetPublisher(hub)

	loginRedirect := "/"
	if len(cfg.CORSAllowedOrigins) > 0 {
		loginRedirect = cfg.CORSAllowedOrigins[0]
	}

	return &application{
		sessions:      sessionManager,
		hub:           hub,
		loginRedirect: loginRedirect,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigins(cfg.CORSAllowedOrigins),
		},
		userStore:     userStore,
		users:         service.NewUserService(database, userStore, tournamentStore),
		teams:         service.NewTeamService(database, teamStore, userStore, notifications),
		tournaments:   service.NewTournamentService(database, tournamentStore, locks),
		matches:       matches,
		rankings:      service.NewRankingService(teamStore),
		notifications: notifications,
	}
}

// allowOrigins accepts same-origin requests and the configured frontends.
func allowOrigins(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		return slices.Contains(origins, origin) || slices.Contains(origins, "*")
	}
}

// currentUser is only called behind RequireAuth.
func currentUser(r *http.Request) *users.User {
	return middleware.GetAuthenticatedUser(r.Context())
}

// uuidParam parses a UUID route parameter and answers 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+label+" ID", err)
		return uuid.Nil, false
	}
	return id, true
}

// requireTournamentOwner answers 403 unless the current user owns the
// tournament or is an admin.
func (app *application) requireTournamentOwner(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	ok, err := app.tournaments.IsTournamentOwner(r.Context(), id, currentUser(r))
	if err != nil {
		httputil.ServiceError(w, "Failed to check tournament owner", err)
		return false
	}
	if !ok {
		httputil.Forbidden(w, "Only the tournament owner can do this")
		return false
	}
	return true
}

func (app *application) requireTeamOwner(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	ok, err := app.teams.IsTeamOwner(r.Context(), id, currentUser(r))
	if err != nil {
		httputil.ServiceError(w, "Failed to check team owner", err)
		return false
	}
	if !ok {
		httputil.Forbidden(w, "Only the team owner can do this")
		return false
	}
	return true
}
