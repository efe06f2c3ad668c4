package db

import (
	"context"

	"pickwise/internal/models"
)

// RecordDecision inserts an accepted pick into the decision log.
func (d *DB) RecordDecision(ctx context.Context, dec *models.Decision) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO decisions (id, title, decided_at, hour_of_day, weekday)
		VALUES ($1, $2, $3, $4, $5)
	`, dec.ID, dec.Title, dec.DecidedAt, dec.HourOfDay, dec.Weekday)
	return err
}

// ListDecisions returns up to limit decisions, newest first. A non-positive
// limit returns every row.
func (d *DB) ListDecisions(ctx context.Context, limit int) ([]models.Decision, error) {
	query := `SELECT id, title, decided_at, hour_of_day, weekday FROM decisions ORDER BY decided_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := []models.Decision{}
	for rows.Next() {
		var dec models.Decision
		if err := rows.Scan(&dec.ID, &dec.Title, &dec.DecidedAt, &dec.HourOfDay, &dec.Weekday); err != nil {
			return nil, err
		}
		decisions = append(decisions, dec)
	}
	return decisions, rows.Err()
}
