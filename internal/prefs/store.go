// Package prefs defines the preference store the picker learns from and
// ships in-memory and Badger implementations of it.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"pickwise/internal/models"
)

// Store errors.
var (
	ErrStatNotFound  = errors.New("option stat not found")
	ErrNegativeCount = errors.New("option counts must not be negative")
	ErrEmptyTitle    = errors.New("option title is empty")
)

// Store holds per-title accept/skip counts.
type Store interface {
	// GetStat returns the record for title or ErrStatNotFound.
	GetStat(ctx context.Context, title string) (*models.OptionStat, error)
	// UpsertStat creates or replaces the record for stat.Title.
	UpsertStat(ctx context.Context, stat *models.OptionStat) error
	// ListStats returns every record ordered by title.
	ListStats(ctx context.Context) ([]models.OptionStat, error)
}

// Journal keeps the history of accepted picks.
type Journal interface {
	RecordDecision(ctx context.Context, d *models.Decision) error
	// ListDecisions returns up to limit entries, newest first.
	ListDecisions(ctx context.Context, limit int) ([]models.Decision, error)
}

// Backend is a store that also keeps a decision journal.
type Backend interface {
	Store
	Journal
	Close() error
}

// CheckStat validates a record before it is written.
func CheckStat(stat *models.OptionStat) error {
	if stat.Title == "" {
		return ErrEmptyTitle
	}
	if stat.SuccessCount < 0 || stat.FailureCount < 0 {
		return fmt.Errorf("%q: %w", stat.Title, ErrNegativeCount)
	}
	return nil
}

// GetOrCreate returns the record for title, writing an empty one first if
// none exists.
func GetOrCreate(ctx context.Context, s Store, title string) (*models.OptionStat, error) {
	stat, err := s.GetStat(ctx, title)
	if err == nil {
		return stat, nil
	}
	if !errors.Is(err, ErrStatNotFound) {
		return nil, err
	}

	stat = models.NewOptionStat(title)
	if err := s.UpsertStat(ctx, stat); err != nil {
		return nil, fmt.Errorf("create stat %q: %w", title, err)
	}
	return stat, nil
}
