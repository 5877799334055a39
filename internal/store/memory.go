package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MemoryStore implements Store on a mutex-guarded map. It backs local
// development and the test suites; every operation holds the lock for
// its full duration, so Transaction is trivially serialized and
// UpdateMany is all-or-nothing, matching the redis implementation's
// guarantees.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *MemoryStore) Set(_ context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = b
	return nil
}

func (s *MemoryStore) UpdateMany(_ context.Context, updates map[string]any) error {
	staged := make(map[string][]byte, len(updates))
	for path, value := range updates {
		if value == nil {
			staged[path] = nil
			continue
		}
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		staged[path] = b
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, b := range staged {
		if b == nil {
			delete(s.docs, path)
			continue
		}
		s.docs[path] = b
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *MemoryStore) Transaction(_ context.Context, path string, fn TransitionFunc) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var old json.RawMessage
	if b, ok := s.docs[path]; ok {
		old = b
	}
	next, err := fn(old)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	s.docs[path] = b
	return b, nil
}

func (s *MemoryStore) GetCollection(_ context.Context, prefix string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]json.RawMessage{}
	for path, b := range s.docs {
		if !strings.HasPrefix(path, prefix+"/") {
			continue
		}
		id := strings.TrimPrefix(path, prefix+"/")
		if strings.Contains(id, "/") {
			continue
		}
		cp := make([]byte, len(b))
		copy(cp, b)
		out[id] = cp
	}
	return out, nil
}
