package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/go-chi/chi/v5"
)

type scoreRequest struct {
	Team1Score *int `json:"team1_score" validate:"required,min=0"`
	Team2Score *int `json:"team2_score" validate:"required,min=0"`
}

func (app *application) getMatch(w http.ResponseWriter, r *http.Request) {
	match, err := app.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.ServiceError(w, "Failed to get match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

// updateScore records a result. Only the owner of the match's tournament
// may enter scores.
func (app *application) updateScore(w http.ResponseWriter, r *http.Request) {
	match, err := app.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.ServiceError(w, "Failed to get match", err)
		return
	}
	if !app.requireTournamentOwner(w, r, match.TournamentID) {
		return
	}

	var in scoreRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	updated, err := app.matches.UpdateScore(r.Context(), match.ID, *in.Team1Score, *in.Team2Score)
	if err != nil {
		httputil.ServiceError(w, "Failed to update score", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (app *application) teamRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := app.rankings.TeamRankings(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to get team rankings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rankings)
}

func (app *application) playerRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := app.rankings.PlayerRankings(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to get player rankings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rankings)
}

func (app *application) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := app.notifications.GetNotifications(r.Context(), currentUser(r).ID)
	if err != nil {
		httputil.ServiceError(w, "Failed to get notifications", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, notifications)
}

func (app *application) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := app.notifications.MarkRead(r.Context(), id, currentUser(r).ID); err != nil {
		httputil.ServiceError(w, "Failed to mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
