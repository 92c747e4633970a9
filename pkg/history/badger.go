package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists exchanges in an embedded BadgerDB at a filesystem
// path. One key per user holding the JSON-encoded exchange list, oldest
// first; per-user histories are small enough that whole-list rewrites are
// cheaper than key-per-exchange iteration.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

var _ Store = (*BadgerStore)(nil)

func userKey(userID string) []byte {
	return []byte("history:" + userID)
}

// load reads the full exchange list for a user inside a transaction.
func load(txn *badger.Txn, userID string) ([]Exchange, error) {
	item, err := txn.Get(userKey(userID))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var exchanges []Exchange
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &exchanges)
	})
	return exchanges, err
}

// Recent returns up to limit most recent exchanges for userID, oldest first.
func (s *BadgerStore) Recent(_ context.Context, userID string, limit int) ([]Exchange, error) {
	var exchanges []Exchange
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		exchanges, err = load(txn, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", userID, err)
	}
	if limit > 0 && limit < len(exchanges) {
		exchanges = exchanges[len(exchanges)-limit:]
	}
	return exchanges, nil
}

// Save appends one exchange.
func (s *BadgerStore) Save(_ context.Context, exchange Exchange) error {
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		exchanges, err := load(txn, exchange.UserID)
		if err != nil {
			return err
		}
		exchanges = append(exchanges, exchange)
		data, err := json.Marshal(exchanges)
		if err != nil {
			return err
		}
		return txn.Set(userKey(exchange.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save exchange for %s: %w", exchange.UserID, err)
	}
	return nil
}

// Clear removes all exchanges for userID.
func (s *BadgerStore) Clear(_ context.Context, userID string) (int, error) {
	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		exchanges, err := load(txn, userID)
		if err != nil {
			return err
		}
		removed = len(exchanges)
		if removed == 0 {
			return nil
		}
		return txn.Delete(userKey(userID))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear history for %s: %w", userID, err)
	}
	return removed, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
