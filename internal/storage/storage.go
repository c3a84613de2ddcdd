// Package storage implements Postgres persistence for currencies, users,
// operations and roles on top of sqlx.
package storage

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/olegsv/finkurs/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps low-level driver errors into the domain taxonomy.
func translate(err error, conflictMsg, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(domain.KindNotFound, notFoundMsg, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return domain.NewError(domain.KindConflict, conflictMsg, err)
		case pgForeignKeyViolation:
			return domain.NewError(domain.KindNotFound, notFoundMsg, err)
		}
	}
	return domain.ErrUnavailable("storage failure", err)
}
