package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/views"
	"go.uber.org/zap"
)

// serveWS subscribes the connection to bracket updates of one tournament.
func (app *application) serveWS(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}
	if _, err := app.tournaments.GetTournament(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to get tournament", err)
		return
	}

	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		zap.L().Warn("websocket upgrade failed", zap.String("tournament_id", id.String()), zap.Error(err))
		return
	}
	app.hub.Attach(conn, id)
}

func (app *application) bracketPage(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}

	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get tournament", err)
		return
	}

	page := views.BracketPage(views.PrepareBracketData(data.Tournament, data.Teams, data.Matches))
	if err := views.Render(w, r, page); err != nil {
		zap.L().Error("failed to render bracket page", zap.Error(err))
	}
}
