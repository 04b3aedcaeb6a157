package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/service"
	"github.com/google/uuid"
)

type joinRequest struct {
	TeamID uuid.UUID `json:"team_id" validate:"required"`
}

type startResponse struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Matches    []bracket.Match     `json:"matches"`
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	var status *bracket.TournamentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := bracket.TournamentStatus(s)
		status = &st
	}

	tournaments, err := app.tournaments.ListTournaments(r.Context(), status)
	if err != nil {
		httputil.ServiceError(w, "Failed to list tournaments", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}

	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var in service.TournamentInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	tournament, err := app.tournaments.CreateTournament(r.Context(), currentUser(r).ID, in)
	if err != nil {
		httputil.ServiceError(w, "Failed to create tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tournament)
}

func (app *application) updateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok || !app.requireTournamentOwner(w, r, id) {
		return
	}

	var in service.TournamentUpdate
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	tournament, err := app.tournaments.UpdateTournament(r.Context(), id, in)
	if err != nil {
		httputil.ServiceError(w, "Failed to update tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok || !app.requireTournamentOwner(w, r, id) {
		return
	}

	if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to delete tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// joinTournament enrolls one of the caller's teams.
func (app *application) joinTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}

	var in joinRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}
	if !app.requireTeamOwner(w, r, in.TeamID) {
		return
	}

	if err := app.tournaments.JoinTournament(r.Context(), id, in.TeamID); err != nil {
		httputil.ServiceError(w, "Failed to join tournament", err)
		return
	}
	app.getTournament(w, r)
}

// leaveTournament withdraws a team. Either the team owner or the tournament
// owner may do it.
func (app *application) leaveTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}
	teamID, ok := uuidParam(w, r, "teamID", "team")
	if !ok {
		return
	}

	user := currentUser(r)
	ownsTeam, err := app.teams.IsTeamOwner(r.Context(), teamID, user)
	if err != nil {
		httputil.ServiceError(w, "Failed to check team owner", err)
		return
	}
	if !ownsTeam && !app.requireTournamentOwner(w, r, id) {
		return
	}

	if err := app.tournaments.LeaveTournament(r.Context(), id, teamID); err != nil {
		httputil.ServiceError(w, "Failed to leave tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) startTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok || !app.requireTournamentOwner(w, r, id) {
		return
	}

	tournament, matches, err := app.matches.StartTournament(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to start tournament", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, startResponse{Tournament: tournament, Matches: matches})
}

func (app *application) checkCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok || !app.requireTournamentOwner(w, r, id) {
		return
	}

	completed, err := app.matches.CheckCompleted(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to check tournament completion", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (app *application) listMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "tournament")
	if !ok {
		return
	}

	matches, err := app.matches.GetMatches(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to list matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}
