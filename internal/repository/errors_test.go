package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	require.NoError(t, mapError(nil))
	require.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "academies_cnpj_key"}
	require.ErrorIs(t, mapError(unique), ErrConflict)

	restrict := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(1) is still referenced from table "attendance".`,
	}
	require.ErrorIs(t, mapError(restrict), ErrDependencyExists)

	missing := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (academy_id)=(2) is not present in table "academies".`,
	}
	require.ErrorIs(t, mapError(missing), ErrInvalidReference)

	other := errors.New("connection reset")
	require.Equal(t, other, mapError(other))

	check := &pgconn.PgError{Code: pgerrcode.CheckViolation, Message: "violates check"}
	mapped := mapError(check)
	require.ErrorAs(t, mapped, new(*pgconn.PgError))
}
