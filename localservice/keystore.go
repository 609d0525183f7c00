package localservice

import (
	"sync"
	"time"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

// keyEntry pairs stored key material with its metadata.
type keyEntry struct {
	material []byte
	meta     securerpc.KeyMetadata
}

func (e keyEntry) copy() keyEntry {
	b := make([]byte, len(e.material))
	copy(b, e.material)
	return keyEntry{material: b, meta: e.meta}
}

// keyStore holds the service's keys in memory. Safe for concurrent use.
type keyStore struct {
	mu        sync.RWMutex
	keys      map[string]keyEntry
	defaultID string
}

func newKeyStore() *keyStore {
	return &keyStore{keys: make(map[string]keyEntry)}
}

// put stores a defensive copy of material under id.
func (s *keyStore) put(id string, material []byte, meta securerpc.KeyMetadata) {
	b := make([]byte, len(material))
	copy(b, material)
	meta.ID = id
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[id] = keyEntry{material: b, meta: meta}
	if s.defaultID == "" {
		s.defaultID = id
	}
}

// get resolves id, with the empty string selecting the default key, and
// returns a copy of the entry.
func (s *keyStore) get(id string) (keyEntry, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := id
	if resolved == "" {
		resolved = s.defaultID
	}
	entry, ok := s.keys[resolved]
	if !ok {
		return keyEntry{}, "", &transport.KeyRefError{ID: id}
	}
	return entry.copy(), resolved, nil
}

// delete removes id. The default key designation moves on if needed.
func (s *keyStore) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.keys[id]
	if !ok {
		return &transport.KeyRefError{ID: id}
	}
	clear(entry.material)
	delete(s.keys, id)
	if s.defaultID == id {
		s.defaultID = ""
		for other := range s.keys {
			s.defaultID = other
			break
		}
	}
	return nil
}

// list returns all key identifiers.
func (s *keyStore) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	return ids
}

// metadata returns the metadata of id.
func (s *keyStore) metadata(id string) (securerpc.KeyMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.keys[id]
	if !ok {
		return securerpc.KeyMetadata{}, &transport.KeyRefError{ID: id}
	}
	return entry.meta, nil
}

// snapshot returns copies of every entry, for backup.
func (s *keyStore) snapshot() map[string]keyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]keyEntry, len(s.keys))
	for id, entry := range s.keys {
		out[id] = entry.copy()
	}
	return out
}

// restore merges entries into the store, replacing duplicates.
func (s *keyStore) restore(entries map[string]keyEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range entries {
		s.keys[id] = entry.copy()
		if s.defaultID == "" {
			s.defaultID = id
		}
	}
}

// reset wipes and removes every key.
func (s *keyStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.keys {
		clear(entry.material)
		delete(s.keys, id)
	}
	s.defaultID = ""
}

// count returns the number of stored keys.
func (s *keyStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
