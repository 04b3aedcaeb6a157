package main

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/middleware"
	"github.com/AdamBeresnev/tourney-api/internal/service"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
)

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	user, err := app.users.Register(r.Context(), in)
	if err != nil {
		httputil.ServiceError(w, "Failed to register user", err)
		return
	}
	if err := app.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), err)
		return
	}

	user, err := app.users.Authenticate(r.Context(), in.Login, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httputil.Unauthorized(w, "Invalid username or password")
			return
		}
		httputil.ServiceError(w, "Failed to log in", err)
		return
	}
	if err := app.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to log out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, currentUser(r))
}

// withProvider copies the chi route parameter to where gothic looks for it.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", chi.URLParam(r, "provider"))
	r.URL.RawQuery = q.Encode()
	return r
}

func (app *application) beginOAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProvider(r))
}

func (app *application) completeOAuth(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}

	user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, "Failed to find or create user", err)
		return
	}
	if err := app.startSession(r, user.ID); err != nil {
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}

	http.Redirect(w, r, app.loginRedirect, http.StatusFound)
}

// startSession renews the token before storing the user to prevent session
// fixation.
func (app *application) startSession(r *http.Request, userID uuid.UUID) error {
	if err := app.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	app.sessions.Put(r.Context(), middleware.SessionUserID, userID.String())
	return nil
}
