package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// IsExclusionConflict reports whether err comes from a violated exclusion
// constraint, e.g. two overlapping viewings for one broker.
func IsExclusionConflict(err error) bool {
	return hasSQLState(err, pgExclusionViolation)
}

func IsUniqueViolation(err error) bool {
	return hasSQLState(err, pgUniqueViolation)
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
