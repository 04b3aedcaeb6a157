package middleware

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/AdamBeresnev/tourney-api/internal/httputil"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	users "github.com/AdamBeresnev/tourney-api/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"go.uber.org/zap"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

// SessionUserID is the session key holding the logged in user's id.
const SessionUserID = "userID"

// InitAuth registers the OAuth providers that have credentials configured.
func InitAuth(cfg config.OAuth) {
	var providers []goth.Provider
	if cfg.DiscordKey != "" {
		providers = append(providers, discord.New(cfg.DiscordKey, cfg.DiscordSecret, cfg.DiscordCallbackURL, discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.GoogleKey != "" {
		providers = append(providers, google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL, "email", "profile"))
	}
	if len(providers) == 0 {
		zap.L().Info("no oauth providers configured")
		return
	}
	goth.UseProviders(providers...)
}

// LoadUser puts the session's user into the request context when there is
// one. Requests without a session pass through untouched.
func LoadUser(sessionManager *scs.SessionManager, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := sessionManager.GetString(r.Context(), SessionUserID)
			if userIDStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionUserID)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userStore.GetUser(r.Context(), userID)
			if err != nil {
				// Deleted user or broken row, treat the session as logged out
				zap.L().Warn("session user not loaded", zap.String("user_id", userIDStr), zap.Error(err))
				sessionManager.Remove(r.Context(), SessionUserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, users.UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that LoadUser did not authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthenticatedUser(r.Context()) == nil {
			httputil.Unauthorized(w, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}
