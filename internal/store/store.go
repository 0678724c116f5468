// Package store implements the persistence store: five JSON-encoded record
// collections kept in a key-value medium and rewritten whole on every change.
//
// Reads never fail. A missing key or an undecodable value reads as an empty
// collection and is logged. Writes return their error to the caller after
// logging it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"powcost/internal/kv"
	"powcost/internal/logger"
	"powcost/internal/uuid"
)

// Collection keys.
const (
	KeyItems         = "items"
	KeyProjects      = "projects"
	KeyProjectItems  = "project_items"
	KeyIndirectCosts = "indirect_costs"
	KeySettings      = "settings"
)

// ErrUnknownProject is returned when a record would reference a project that
// does not exist.
var ErrUnknownProject = errors.New("store: project does not exist")

// Store is the process-wide persistence store. It is safe for concurrent use;
// each public method runs its read-modify-write cycle under one lock.
type Store struct {
	medium kv.Medium
	mu     sync.Mutex
	log    *zap.SugaredLogger
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the project id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns a store over medium.
func New(medium kv.Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		log:    logger.Named("store"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func readCollection[T any](s *Store, key string) []T {
	records := []T{}
	data, err := s.medium.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			s.log.Errorw("failed to read collection", "key", key, "error", err)
		}
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Errorw("failed to decode collection", "key", key, "error", err)
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

func writeCollection[T any](s *Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.medium.Set(key, data); err != nil {
		s.log.Errorw("failed to save collection", "key", key, "bytes", len(data), "error", err)
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// nextID returns max(existing ids, 0) + 1.
func nextID[T any](records []T, id func(T) int) int {
	highest := 0
	for _, r := range records {
		if v := id(r); v > highest {
			highest = v
		}
	}
	return highest + 1
}
