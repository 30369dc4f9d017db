package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// MemoryStore keeps analyses in process memory. Values are deep-copied on
// the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*domain.ManifestAnalysis
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{analyses: make(map[string]*domain.ManifestAnalysis)}
}

// Put stores a copy of a, replacing any analysis with the same ID.
func (s *MemoryStore) Put(_ context.Context, a *domain.ManifestAnalysis) error {
	if a == nil || a.ManifestID == "" {
		return fmt.Errorf("putting analysis: manifest id is required")
	}

	c, err := clone(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ManifestID] = c
	return nil
}

// Get returns a copy of the analysis with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.ManifestAnalysis, error) {
	s.mu.RLock()
	a, ok := s.analyses[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return clone(a)
}

// Delete removes the analysis with the given ID.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[id]; !ok {
		return false, nil
	}
	delete(s.analyses, id)
	return true, nil
}

// List returns a page of summaries, newest first.
func (s *MemoryStore) List(_ context.Context, q *ListQuery) ([]domain.ManifestSummary, int, error) {
	s.mu.RLock()
	all := make([]domain.ManifestSummary, 0, len(s.analyses))
	for _, a := range s.analyses {
		all = append(all, a.Summary())
	}
	s.mu.RUnlock()

	return page(all, q.Normalized()), len(all), nil
}

// DeleteOlderThan removes analyses uploaded before cutoff.
func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, a := range s.analyses {
		if a.UploadTimestamp.Before(cutoff) {
			delete(s.analyses, id)
			n++
		}
	}
	return n, nil
}

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }

// clone deep-copies through the same JSON encoding the persistent
// backends use, so every backend round-trips identically.
func clone(a *domain.ManifestAnalysis) (*domain.ManifestAnalysis, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (*domain.ManifestAnalysis, error) {
	out := &domain.ManifestAnalysis{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
