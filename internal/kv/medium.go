// Package kv provides the synchronous key-value media behind the persistence
// store: a SQL table through GORM, or an embedded badger database.
package kv

import "errors"

var (
	// ErrKeyNotFound is returned by Get when the key has never been written.
	ErrKeyNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded is returned by Set when the write would exceed the
	// medium's capacity.
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
)

// Medium is a durable string-keyed byte store.
type Medium interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Usage returns the bytes currently held, counting keys and values.
	Usage() (int64, error)
	Close() error
}

type quotaMedium struct {
	Medium
	capacity int64
}

// WithQuota wraps m so that a Set fails with ErrQuotaExceeded when the stored
// keys and values would grow beyond capacity bytes. A non-positive capacity
// disables the check.
func WithQuota(m Medium, capacity int64) Medium {
	if capacity <= 0 {
		return m
	}
	return &quotaMedium{Medium: m, capacity: capacity}
}

func (q *quotaMedium) Set(key string, value []byte) error {
	used, err := q.Medium.Usage()
	if err != nil {
		return err
	}

	current, err := q.Medium.Get(key)
	switch {
	case err == nil:
		used -= int64(len(key) + len(current))
	case !errors.Is(err, ErrKeyNotFound):
		return err
	}

	if used+int64(len(key)+len(value)) > q.capacity {
		return ErrQuotaExceeded
	}
	return q.Medium.Set(key, value)
}
