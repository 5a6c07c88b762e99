package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by every repository.
var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record already exists")
	ErrDependencyExists = errors.New("record is still referenced")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// mapError maps pgx and PostgreSQL errors to the sentinels above.
// Unknown errors are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		// Deletes hit RESTRICT references; inserts point at missing rows.
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return fmt.Errorf("%w: %s", ErrDependencyExists, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case pgerrcode.InvalidTextRepresentation:
		return ErrNotFound
	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
