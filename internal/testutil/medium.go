package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"powcost/internal/kv"
)

// ErrInjectedWrite is returned by a FailingMedium while writes are failing.
var ErrInjectedWrite = errors.New("testutil: injected write failure")

// FailingMedium wraps a medium and fails every Set and Delete while Fail is
// set. Keys registered with FailKey fail regardless of Fail.
type FailingMedium struct {
	kv.Medium
	Fail atomic.Bool
	keys sync.Map
}

// FailKey makes every write to key fail.
func (f *FailingMedium) FailKey(key string) {
	f.keys.Store(key, struct{}{})
}

func (f *FailingMedium) failing(key string) bool {
	if f.Fail.Load() {
		return true
	}
	_, ok := f.keys.Load(key)
	return ok
}

// NewFailingMedium wraps m. Writes succeed until Fail is set.
func NewFailingMedium(m kv.Medium) *FailingMedium {
	return &FailingMedium{Medium: m}
}

func (f *FailingMedium) Set(key string, value []byte) error {
	if f.failing(key) {
		return ErrInjectedWrite
	}
	return f.Medium.Set(key, value)
}

func (f *FailingMedium) Delete(key string) error {
	if f.failing(key) {
		return ErrInjectedWrite
	}
	return f.Medium.Delete(key)
}
