package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"pickwise/internal/models"
	"pickwise/internal/prefs"
)

// optionStatColumns is the standard column list for option stat queries.
const optionStatColumns = `title, success_count, failure_count, last_used_at`

func scanOptionStat(row pgx.Row) (*models.OptionStat, error) {
	var s models.OptionStat
	if err := row.Scan(&s.Title, &s.SuccessCount, &s.FailureCount, &s.LastUsedAt); err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// GetStat returns the stats row for title.
func (d *DB) GetStat(ctx context.Context, title string) (*models.OptionStat, error) {
	row := d.Pool.QueryRow(ctx, `SELECT `+optionStatColumns+` FROM option_stats WHERE title = $1`, title)
	return scanOptionStat(row)
}

// UpsertStat creates or replaces the stats row for stat.Title.
func (d *DB) UpsertStat(ctx context.Context, stat *models.OptionStat) error {
	if err := prefs.CheckStat(stat); err != nil {
		return err
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO option_stats (title, success_count, failure_count, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title) DO UPDATE
		SET success_count = EXCLUDED.success_count,
			failure_count = EXCLUDED.failure_count,
			last_used_at = EXCLUDED.last_used_at,
			updated_at = NOW()
	`, stat.Title, stat.SuccessCount, stat.FailureCount, stat.LastUsedAt)
	return translateError(err)
}

// ListStats returns all stats rows ordered by title.
func (d *DB) ListStats(ctx context.Context) ([]models.OptionStat, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+optionStatColumns+` FROM option_stats ORDER BY title COLLATE "C"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.OptionStat{}
	for rows.Next() {
		var s models.OptionStat
		if err := rows.Scan(&s.Title, &s.SuccessCount, &s.FailureCount, &s.LastUsedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
