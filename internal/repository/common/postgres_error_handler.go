package common

import (
	"errors"
	"strings"

	apperrors "github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "22P02": // INVALID_TEXT_REPRESENTATION (e.g. malformed UUID)
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "invalid identifier format")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found (run 'arena db migrate')")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	default:
		message := operation + " (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.HasPrefix(constraintName, "channels_pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "channel with this ID already exists")
	case strings.HasPrefix(constraintName, "merge_runs_pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "merge run with this ID already exists")
	case strings.HasPrefix(constraintName, "merge_run_items_pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "merge run item position already recorded")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

// handleForeignKeyViolation provides specific error messages for foreign key constraints
func handleForeignKeyViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	switch {
	case strings.Contains(pgErr.ConstraintName, "destination_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "destination channel is not recorded")
	case strings.Contains(pgErr.ConstraintName, "run_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced merge run does not exist")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced resource does not exist")
	}
}
