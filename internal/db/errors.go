package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pickwise/internal/prefs"
)

// Postgres error codes the store maps to domain errors.
const (
	pgCheckViolation = "23514"
)

// translateError maps driver errors onto the prefs sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return prefs.ErrStatNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, prefs.ErrNegativeCount)
	}
	return err
}
