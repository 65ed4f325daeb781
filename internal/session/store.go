package session

import (
	"sync"

	"github.com/sandevgo/novatasks/internal/core"
)

// MemoryStore holds one conversation buffer per session key, entirely in
// process memory. Buffers are append-only for their lifetime and removed
// as a whole when a completion signal destroys the session; there is no
// partial truncation and no size bound. Destruction on completion is the
// only growth mitigation.
type MemoryStore struct {
	mu      sync.Mutex
	buffers map[string][]core.Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buffers: make(map[string][]core.Turn),
	}
}

// GetOrCreate returns a snapshot copy of the buffer for key, creating an
// empty buffer if the key has none yet.
func (s *MemoryStore) GetOrCreate(key string) []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffers[key]
	if !ok {
		s.buffers[key] = nil
		return nil
	}

	snapshot := make([]core.Turn, len(buf))
	copy(snapshot, buf)
	return snapshot
}

// Append adds a turn to the buffer for key. Keys without a buffer are
// ignored; callers must GetOrCreate first.
func (s *MemoryStore) Append(key, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[key]; !ok {
		return
	}
	s.buffers[key] = append(s.buffers[key], core.Turn{Role: role, Text: text})
}

// Destroy removes the buffer for key, silently succeeding if absent.
func (s *MemoryStore) Destroy(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, key)
}
