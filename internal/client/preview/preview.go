// Package preview issues short-lived, locally-resolvable locators for
// immediate display of a payload before (or entirely without) an upload.
//
// The store is session-scoped: locators are valid only while the owning
// Store lives and must never be persisted or transmitted.
package preview

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/common"
)

const locatorScheme = "mem://"

// Store keeps preview blobs in memory, keyed by locator.
type Store struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	closed bool
}

func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Generate registers p's bytes and returns a locator that Resolve answers
// synchronously, with no network dependency. Fails only on unreadable input.
func (s *Store) Generate(p models.Payload) (string, error) {
	if p.Data == nil {
		return "", fmt.Errorf("%s: %w", p.Name, common.ErrRead)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fmt.Errorf("%s: preview store closed: %w", p.Name, common.ErrRead)
	}

	loc := locatorScheme + uuid.NewString()
	data := make([]byte, len(p.Data))
	copy(data, p.Data)
	s.blobs[loc] = data
	return loc, nil
}

// Resolve returns the raw bytes behind a locator. Callers must treat the
// returned slice as read-only.
func (s *Store) Resolve(locator string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[locator]
	return data, ok
}

// Revoke releases one locator. Revoking an unknown locator is a no-op.
func (s *Store) Revoke(locator string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, locator)
}

// Len reports how many previews are currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Close releases every blob. Matches the owning form unmounting: temporary
// payloads go away with no server-side cleanup, they were never uploaded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
	s.closed = true
}
