package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/telecare/telecare-api/internal/domain/repository"
)

// Postgres error codes this store cares about.
const (
	codeUniqueViolation = "23505"
	// Raised when a path parameter is not a well-formed uuid literal; for
	// lookups that is indistinguishable from "no such row" to the caller.
	codeInvalidTextRepresentation = "22P02"
)

// translateError maps driver errors onto the repository sentinels so that
// callers never see pgconn/pgx types.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return repository.ErrDuplicate
		case codeInvalidTextRepresentation:
			return repository.ErrNotFound
		}
	}
	return err
}
