// Package session drives one decision flow: it filters recent picks out of
// the pool, asks the picker for a title, and turns accept/skip into
// preference updates.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"fmt"
	"time"

	"pickwise/internal/logging"
	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
	"pickwise/internal/validation"
)

// Session tracks recent picks and the pending result of one decision flow.
type Session struct {
	store   prefs.Store
	journal prefs.Journal
	src     picker.Source
	now     func() time.Time

	adventure float64
	recent    *RecentQueue
	pending   string
}

// Option configures a Session.
type Option func(*Session)

// WithAdventure sets the starting adventurousness (clamped to [0, 1]).
func WithAdventure(a float64) Option {
	return func(s *Session) { s.adventure = picker.ClampAdventure(a) }
}

// WithSource sets the random source used for the weighted pick.
func WithSource(src picker.Source) Option {
	return func(s *Session) { s.src = src }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithJournal records a Decision on every accept.
func WithJournal(j prefs.Journal) Option {
	return func(s *Session) { s.journal = j }
}

// New creates a session backed by store.
func New(store prefs.Store, opts ...Option) *Session {
	s := &Session{
		store:     store,
		src:       picker.DefaultSource(),
		now:       time.Now,
		adventure: picker.DefaultAdventure,
		recent:    NewRecentQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Adventure returns the current adventurousness.
func (s *Session) Adventure() float64 {
	return s.adventure
}

// SetAdventure changes adventurousness, clamped to [0, 1].
func (s *Session) SetAdventure(a float64) {
	s.adventure = picker.ClampAdventure(a)
}

// Pending returns the last pick that has not been accepted yet.
func (s *Session) Pending() string {
	return s.pending
}

// Recent returns the recent-picks queue, oldest first.
func (s *Session) Recent() []string {
	return s.recent.Items()
}

// PickOne draws a title from fullPool, avoiding recent picks when possible.
// It returns false when the pool has no usable titles.
func (s *Session) PickOne(ctx context.Context, fullPool []string) (string, bool, error) {
	pool := validation.NormalizePool(fullPool)
	if len(pool) == 0 {
		return "", false, nil
	}

	candidates := s.recent.Filter(pool)
	scores, err := Scores(ctx, s.store, candidates)
	if err != nil {
		return "", false, err
	}

	title, ok := picker.Pick(candidates, ScoreLookup(scores), s.adventure, s.src)
	if !ok {
		return "", false, nil
	}

	s.recent.Push(title)
	if err := s.update(ctx, title, func(stat *models.OptionStat) {
		stat.Touch(s.now())
	}); err != nil {
		return "", false, err
	}
	s.pending = title

	logging.Debug().
		Str("title", title).
		Int("candidates", len(candidates)).
		Float64("adventure", s.adventure).
		Msg("option picked")
	return title, true, nil
}

// Accept records title as chosen and ends the current decision.
func (s *Session) Accept(ctx context.Context, title string) error {
	title = validation.NormalizeTitle(title)
	if title == "" {
		return prefs.ErrEmptyTitle
	}

	now := s.now()
	if err := s.update(ctx, title, func(stat *models.OptionStat) {
		stat.SuccessCount++
		stat.Touch(now)
	}); err != nil {
		return err
	}

	if s.journal != nil {
		if err := s.journal.RecordDecision(ctx, models.NewDecision(title, now)); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}
	}

	s.pending = ""
	logging.Debug().Str("title", title).Msg("option accepted")
	return nil
}

// Skip records title as rejected, keeps it out of the next draw and picks
// again from pool.
func (s *Session) Skip(ctx context.Context, title string, pool []string) (string, bool, error) {
	title = validation.NormalizeTitle(title)
	if title == "" {
		return "", false, prefs.ErrEmptyTitle
	}

	if err := s.update(ctx, title, func(stat *models.OptionStat) {
		stat.FailureCount++
	}); err != nil {
		return "", false, err
	}
	s.recent.Push(title)
	s.pending = ""

	logging.Debug().Str("title", title).Msg("option skipped")
	return s.PickOne(ctx, pool)
}

// update applies fn to the stored record for title, creating it first.
func (s *Session) update(ctx context.Context, title string, fn func(*models.OptionStat)) error {
	stat, err := prefs.GetOrCreate(ctx, s.store, title)
	if err != nil {
		return fmt.Errorf("load stat %q: %w", title, err)
	}
	fn(stat)
	if err := s.store.UpsertStat(ctx, stat); err != nil {
		return fmt.Errorf("save stat %q: %w", title, err)
	}
	return nil
}

// Scores loads the Beta-mean score of every title, creating empty records
// for titles seen for the first time.
func Scores(ctx context.Context, store prefs.Store, titles []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(titles))
	for _, title := range titles {
		if _, ok := scores[title]; ok {
			continue
		}
		stat, err := prefs.GetOrCreate(ctx, store, title)
		if err != nil {
			return nil, fmt.Errorf("load stat %q: %w", title, err)
		}
		scores[title] = picker.BetaMean(stat.SuccessCount, stat.FailureCount)
	}
	return scores, nil
}

// ScoreLookup turns a score snapshot into a picker.ScoreFunc. Unknown titles
// score 0.5.
func ScoreLookup(scores map[string]float64) picker.ScoreFunc {
	return func(title string) float64 {
		if s, ok := scores[title]; ok {
			return s
		}
		return picker.BetaMean(0, 0)
	}
}
