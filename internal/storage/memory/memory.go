package memory

import (
	"sync"

	"github.com/frahmantamala/expense-tracker/internal/storage"
)

// Store is a map-backed storage.KeyValue. A positive quota caps the summed
// length of all values, the way browser local storage does.
type Store struct {
	mu         sync.RWMutex
	values     map[string]string
	quotaBytes int64
}

func NewStore(quotaBytes int64) *Store {
	return &Store{
		values:     make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Store) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

func (s *Store) SetMany(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotaBytes > 0 && s.usageAfter(entries) > s.quotaBytes {
		return storage.ErrQuotaExceeded
	}
	for key, value := range entries {
		s.values[key] = value
	}
	return nil
}

func (s *Store) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

// Usage returns the bytes currently held.
func (s *Store) Usage() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usageAfter(nil)
}

func (s *Store) usageAfter(entries map[string]string) int64 {
	var total int64
	for key, value := range s.values {
		if _, replaced := entries[key]; replaced {
			continue
		}
		total += int64(len(value))
	}
	for _, value := range entries {
		total += int64(len(value))
	}
	return total
}
