package db

import (
	"strings"

	"github.com/AdamBeresnev/tourney-api/internal/config"
	"github.com/AdamBeresnev/tourney-api/migrations"
	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func InitDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.DatabaseURL
	if cfg.DatabaseDriver == config.DriverSQLite {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to DB")
	}

	zap.L().Info("database connected", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

// SQLiteDSN turns on foreign keys through the DSN so every pooled
// connection enforces them, not only the one that ran a PRAGMA.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// RunMigrations applies every pending embedded migration. The migrate
// instance is not closed since that would close db as well.
func RunMigrations(db *sqlx.DB) error {
	var (
		driver database.Driver
		err    error
	)
	switch db.DriverName() {
	case config.DriverSQLite:
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	default:
		return errors.Newf("no migration driver for %q", db.DriverName())
	}
	if err != nil {
		return errors.Wrap(err, "failed to create migrate driver instance")
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithInstance("iofs", source, db.DriverName(), driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migrate instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}
	return nil
}
