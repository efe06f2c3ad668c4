package prefs

import (
	"context"
	"sort"
	"sync"

	"pickwise/internal/models"
)

var _ Backend = (*MemoryStore)(nil)

// MemoryStore keeps stats and decisions in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	stats     map[string]models.OptionStat
	decisions []models.Decision
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stats: make(map[string]models.OptionStat)}
}

// GetStat returns a copy of the record for title.
func (m *MemoryStore) GetStat(_ context.Context, title string) (*models.OptionStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stat, ok := m.stats[title]
	if !ok {
		return nil, ErrStatNotFound
	}
	return &stat, nil
}

// UpsertStat stores a copy of stat.
func (m *MemoryStore) UpsertStat(_ context.Context, stat *models.OptionStat) error {
	if err := CheckStat(stat); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *stat
	if stat.LastUsedAt != nil {
		t := *stat.LastUsedAt
		cp.LastUsedAt = &t
	}
	m.stats[stat.Title] = cp
	return nil
}

// ListStats returns all records ordered by title.
func (m *MemoryStore) ListStats(_ context.Context) ([]models.OptionStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]models.OptionStat, 0, len(m.stats))
	for _, s := range m.stats {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Title < stats[j].Title })
	return stats, nil
}

// RecordDecision appends d to the journal.
func (m *MemoryStore) RecordDecision(_ context.Context, d *models.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, *d)
	return nil
}

// ListDecisions returns up to limit decisions, newest first.
func (m *MemoryStore) ListDecisions(_ context.Context, limit int) ([]models.Decision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.decisions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.Decision, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.decisions[i])
	}
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
