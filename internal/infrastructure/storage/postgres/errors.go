package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"facture/internal/core/apperror"
)

// PostgreSQL error codes relevant to write paths.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// MapWriteError translates constraint violations into domain errors.
// Violations of the document sequence indexes become number collisions, so
// services can retry numbering; other unique violations become duplicates.
func MapWriteError(err error, table string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		if strings.Contains(pgErr.ConstraintName, "sequence") || strings.Contains(pgErr.ConstraintName, "number") {
			return apperror.NewNumberCollision(table, pgErr.Detail).WithCause(err)
		}
		return apperror.NewDuplicate(table, pgErr.ConstraintName, pgErr.Detail).WithCause(err)
	case codeForeignKeyViolation:
		return apperror.NewConflict("record is referenced by other documents").
			WithDetail("entity", table).
			WithCause(err)
	}

	return err
}
