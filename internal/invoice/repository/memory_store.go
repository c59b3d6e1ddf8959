package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string][]byte
	compress bool
}

func NewMemoryStore(compress bool) *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]byte),
		compress: compress,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	raw, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return unpack(raw)
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	packed := pack(value, s.compress)
	s.mu.Lock()
	s.records[key] = packed
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Raw returns the stored envelope for key.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.records[key]
	return raw, ok
}
