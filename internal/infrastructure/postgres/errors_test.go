package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)

	dup := mapError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "blogs_slug_key"})
	assert.ErrorIs(t, dup, repository.ErrDuplicate)
	assert.Contains(t, dup.Error(), "blogs_slug_key")

	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: codeCheckViolation}), repository.ErrCheck)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: codeForeignKey}), repository.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: codeInvalidText}), repository.ErrNotFound)

	other := errors.New("connection reset")
	assert.Same(t, other, mapError(other))
}
