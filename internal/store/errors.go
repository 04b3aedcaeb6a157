package store

import (
	"database/sql"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/cockroachdb/errors"
)

// getErr translates a missing row into bracket.ErrNotFound and wraps
// anything else.
func getErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(bracket.ErrNotFound, "%s", what)
	}
	return errors.Wrapf(err, "failed to get %s", what)
}

// affectedOne reports ErrNotFound when a write touched no row.
func affectedOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to update %s", what)
	}
	if n == 0 {
		return errors.Wrapf(bracket.ErrNotFound, "%s", what)
	}
	return nil
}
