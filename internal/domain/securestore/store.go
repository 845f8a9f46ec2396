// Package securestore holds transient credential-like values for the
// embedded application. Values live for the lifetime of the process and
// are never written to disk.
package securestore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// ErrStoreUnavailable is returned once the store has been poisoned by a
// failure inside a critical section, or closed.
var ErrStoreUnavailable = errors.New("secure store unavailable")

// Store is a mutex-guarded string map.
type Store struct {
	mu       sync.Mutex
	values   map[string]string // Protected by mu
	poisoned bool              // Protected by mu
	closed   bool              // Protected by mu

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates an empty store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		values: make(map[string]string),
		logger: logger,
	}
}

// WithMetrics adds operation counters to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Get returns the value for key. A missing key is reported through ok,
// not as an error.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.guard("get", func(values map[string]string) {
		value, ok = values[key]
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	return s.guard("set", func(values map[string]string) {
		values[key] = value
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.guard("delete", func(values map[string]string) {
		delete(values, key)
	})
}

// Len returns the number of stored keys.
func (s *Store) Len() (n int, err error) {
	err = s.guard("len", func(values map[string]string) {
		n = len(values)
	})
	return n, err
}

// Close drops every value. Further calls fail with ErrStoreUnavailable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	clear(s.values)
}

// guard runs fn under the lock. A panic inside fn poisons the store and is
// converted into ErrStoreUnavailable. The map may be half-written at that
// point, so later calls refuse to touch it.
func (s *Store) guard(op string, fn func(values map[string]string)) (err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordStoreOp(op, err)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned || s.closed {
		return ErrStoreUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			s.logger.Error("Secure store poisoned", zap.String("op", op), zap.Any("panic", r))
			err = fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, r)
		}
	}()

	fn(s.values)
	return nil
}
