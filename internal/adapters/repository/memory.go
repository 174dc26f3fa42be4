package repository

import (
	"context"
	"sync"

	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/pkg/metrics"
)

// MemoryStore keeps projects in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]model.Project
	nextID int64
	opts   options
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{byID: make(map[int64]model.Project), opts: o}
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Project, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sortByID(out)
	return out, nil
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, p model.Project) (model.Project, error) {
	p, err := Validate(p)
	if err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = s.opts.clock().UTC()
	s.byID[p.ID] = p
	metrics.RecordProjectCreated()
	return p, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id int64) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	return p, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}
