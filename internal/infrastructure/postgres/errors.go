package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

const (
	codeForeignKey      = "23503"
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeInvalidText     = "22P02"
)

// mapError translates driver errors into repository sentinels. Constraint
// names are kept in the message so callers can tell which key collided.
func mapError(err error) error {
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
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", repository.ErrCheck, pgErr.ConstraintName)
		case codeForeignKey:
			// the referenced row is gone
			return repository.ErrNotFound
		case codeInvalidText:
			// malformed uuid in a lookup can never match a row
			return repository.ErrNotFound
		}
	}
	return err
}
