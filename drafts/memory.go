package drafts

import (
	"encoding/json"
	"fmt"
	jsonpatch "github.com/evanphx/json-patch"
	"sync"
	"time"
)

// MemoryStore keeps drafts for the lifetime of the process.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[string][]byte{}, now: time.Now}
}

func (s *MemoryStore) Save(key string, draft Draft) error {
	draft.SavedAt = s.now().UTC()
	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = b
	return nil
}

func (s *MemoryStore) Load(key string) (Draft, error) {
	s.mu.Lock()
	b, ok := s.drafts[key]
	s.mu.Unlock()
	if !ok {
		return Draft{}, ErrNotFound
	}
	return decode(b)
}

func (s *MemoryStore) Patch(key string, patch []byte) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.drafts[key]
	if !ok {
		return Draft{}, ErrNotFound
	}
	merged, err := jsonpatch.MergePatch(b, patch)
	if err != nil {
		return Draft{}, fmt.Errorf("patch draft: %w", err)
	}
	draft, err := decode(merged)
	if err != nil {
		return Draft{}, err
	}
	s.drafts[key] = merged
	return draft, nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
