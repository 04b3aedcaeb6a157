package main

import (
	"net/http"
	"strings"

	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/service"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
)

func (app *application) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := app.users.ListUsers(r.Context())
	if err != nil {
		httputil.ServiceError(w, "Failed to list users", err)
		return
	}

	out := make([]users.Public, 0, len(list))
	for i := range list {
		out = append(out, list[i].Public())
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (app *application) checkUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		httputil.BadRequest(w, "username query parameter is required", nil)
		return
	}

	exists, err := app.users.UsernameExists(r.Context(), username)
	if err != nil {
		httputil.ServiceError(w, "Failed to check username", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// getUser shows the full record to its owner and admins, the public view to
// everyone else.
func (app *application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := app.users.GetUser(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get user", err)
		return
	}

	viewer := currentUser(r)
	if viewer.ID == user.ID || viewer.IsAdmin {
		httputil.WriteJSON(w, http.StatusOK, user)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user.Public())
}

func (app *application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileUpdate
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	user, err := app.users.UpdateProfile(r.Context(), currentUser(r).ID, in)
	if err != nil {
		httputil.ServiceError(w, "Failed to update profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (app *application) userTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "user")
	if !ok {
		return
	}

	teams, err := app.teams.GetTeamsForUser(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get user teams", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, teams)
}

func (app *application) userMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "user")
	if !ok {
		return
	}

	matches, err := app.users.GetUserMatches(r.Context(), id)
	if err != nil {
		httputil.ServiceError(w, "Failed to get user matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}
