package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"pickwise/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	statKeyPrefix     = "stat:"
	decisionKeyPrefix = "decision:"
)

var _ Backend = (*BadgerStore)(nil)

// BadgerStore keeps stats and decisions in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// GetStat returns the record for title.
func (s *BadgerStore) GetStat(_ context.Context, title string) (*models.OptionStat, error) {
	var stat models.OptionStat

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(statKeyPrefix + title))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrStatNotFound
		}
		if err != nil {
			return fmt.Errorf("get stat: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stat)
		})
	})
	if err != nil {
		return nil, err
	}

	return &stat, nil
}

// UpsertStat writes stat under its title.
func (s *BadgerStore) UpsertStat(_ context.Context, stat *models.OptionStat) error {
	if err := CheckStat(stat); err != nil {
		return err
	}

	data, err := json.Marshal(stat)
	if err != nil {
		return fmt.Errorf("marshal stat: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(statKeyPrefix+stat.Title), data)
	})
}

// ListStats returns every record in key (title) order.
func (s *BadgerStore) ListStats(_ context.Context) ([]models.OptionStat, error) {
	stats := []models.OptionStat{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(statKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stat models.OptionStat
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stat)
			})
			if err != nil {
				return err
			}
			stats = append(stats, stat)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}

	return stats, nil
}

// RecordDecision stores d keyed by its timestamp so iteration follows time.
func (s *BadgerStore) RecordDecision(_ context.Context, d *models.Decision) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}

	key := fmt.Sprintf("%s%020d:%s", decisionKeyPrefix, d.DecidedAt.UnixNano(), d.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// ListDecisions returns up to limit decisions, newest first.
func (s *BadgerStore) ListDecisions(_ context.Context, limit int) ([]models.Decision, error) {
	decisions := []models.Decision{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(decisionKeyPrefix)
		seek := append([]byte(decisionKeyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(decisions) >= limit {
				break
			}
			var d models.Decision
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			})
			if err != nil {
				return err
			}
			decisions = append(decisions, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	return decisions, nil
}

// RunGC reclaims value-log space until there is nothing left to rewrite.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("value log gc: %w", err)
		}
	}
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
