package kv

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerMedium stores entries in an embedded badger database.
type BadgerMedium struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database at path. An empty path
// opens an in-memory database.
func OpenBadger(path string, log *zap.SugaredLogger) (*BadgerMedium, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(badgerLogger{log.Named("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", path, err)
	}
	return &BadgerMedium{db: db}, nil
}

// Get returns the stored value for key.
func (m *BadgerMedium) Get(key string) ([]byte, error) {
	var value []byte
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, nil
}

// Set writes value under key.
func (m *BadgerMedium) Set(key string, value []byte) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (m *BadgerMedium) Delete(key string) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Usage sums key and value sizes of all live entries.
func (m *BadgerMedium) Usage() (int64, error) {
	var total int64
	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			total += int64(len(item.Key())) + item.ValueSize()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measuring usage: %w", err)
	}
	return total, nil
}

// Close closes the badger database.
func (m *BadgerMedium) Close() error {
	return m.db.Close()
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
