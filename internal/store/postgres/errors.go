package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// mapForeignKeyError maps a foreign key violation on a write to the sentinel
// for the referenced entity. Returns the original error for anything else.
func mapForeignKeyError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "app_environments_org_id_fkey", "apps_org_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrOrganizationNotFound, pgErr.Detail)
		case "app_versions_app_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrAppNotFound, pgErr.Detail)
		case "app_versions_current_environment_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrEnvironmentNotFound, pgErr.Detail)
		}
		return fmt.Errorf("foreign key violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return err
	}
}
