// Package memory provides the ephemeral storage scope: it lives exactly as
// long as the process, the way tab-scoped storage lives as long as the tab.
package memory

import (
	"context"
	"sync"

	"github.com/dtroode/classroom-auth/internal/model"
)

var _ model.Scope = (*Scope)(nil)

// Scope is a concurrency-safe in-memory key/value scope.
type Scope struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewScope creates an empty in-memory scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Scope) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Scope) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Scope) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len reports the number of stored keys.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}
