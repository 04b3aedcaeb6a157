package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/AdamBeresnev/tourney-api/internal/db"
	"github.com/AdamBeresnev/tourney-api/internal/live"
	"github.com/AdamBeresnev/tourney-api/internal/logging"
	"github.com/AdamBeresnev/tourney-api/internal/middleware"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode logs err and flushes the logger. It runs after run has returned
// so its deferred closes are done before the process exits.
func exitCode(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(cfg *config.Config, logger *zap.Logger) error {
	database, err := db.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	middleware.InitAuth(cfg.OAuth)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	if cfg.DatabaseDriver == config.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	} else {
		sessionManager.Store = memstore.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub()
	go hub.Run(ctx)

	app := newApplication(cfg, database, sessionManager, hub)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(app, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}

	logger.Info("http server stopped")
	return nil
}
