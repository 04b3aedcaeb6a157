package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/service"
)

type teamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type inviteRequest struct {
	Username string `json:"username" validate:"required"`
}

type invitationResponse struct {
	Accept *bool `json:"accept" validate:"required"`
}

func (app *application) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := app.teams.ListTeams(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to list teams", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, teams)
}

func (app *application) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "team")
	if !ok {
		return
	}

	team, err := app.teams.GetTeam(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, team)
}

func (app *application) createTeam(w http.ResponseWriter, r *http.Request) {
	var in teamRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	team, err := app.teams.CreateTeam(r.Context(), currentUser(r), in.Name)
	if err != nil {
		httputil.ServiceError(w, "Failed to create team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, team)
}

func (app *application) renameTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "team")
	if !ok || !app.requireTeamOwner(w, r, id) {
		return
	}

	var in teamRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	team, err := app.teams.RenameTeam(r.Context(), id, in.Name)
	if err != nil {
		httputil.ServiceError(w, "Failed to rename team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, team)
}

func (app *application) deleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "team")
	if !ok || !app.requireTeamOwner(w, r, id) {
		return
	}

	if err := app.teams.DeleteTeam(r.Context(), id); err != nil {
		httputil.ServiceError(w, "Failed to delete team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) addPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := uuidParam(w, r, "id", "team")
	if !ok || !app.requireTeamOwner(w, r, teamID) {
		return
	}

	var in service.PlayerInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	player, err := app.teams.AddPlayer(r.Context(), teamID, in)
	if err != nil {
		httputil.ServiceError(w, "Failed to add player", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, player)
}

func (app *application) updatePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := uuidParam(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID", "player")
	if !ok || !app.requireTeamOwner(w, r, teamID) {
		return
	}

	var in service.PlayerInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	player, err := app.teams.UpdatePlayer(r.Context(), teamID, playerID, in)
	if err != nil {
		httputil.ServiceError(w, "Failed to update player", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, player)
}

func (app *application) deletePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := uuidParam(w, r, "id", "team")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID", "player")
	if !ok || !app.requireTeamOwner(w, r, teamID) {
		return
	}

	if err := app.teams.DeletePlayer(r.Context(), teamID, playerID); err != nil {
		httputil.ServiceError(w, "Failed to delete player", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) invitePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := uuidParam(w, r, "id", "team")
	if !ok || !app.requireTeamOwner(w, r, teamID) {
		return
	}

	var in inviteRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	player, err := app.teams.InvitePlayer(r.Context(), teamID, in.Username)
	if err != nil {
		httputil.ServiceError(w, "Failed to invite player", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, player)
}

func (app *application) respondToInvitation(w http.ResponseWriter, r *http.Request) {
	playerID, ok := uuidParam(w, r, "playerID", "invitation")
	if !ok {
		return
	}

	var in invitationResponse
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	player, err := app.teams.RespondToInvitation(r.Context(), playerID, currentUser(r), *in.Accept)
	if err != nil {
		httputil.ServiceError(w, "Failed to answer invitation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, player)
}
