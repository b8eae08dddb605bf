package dataset

import (
	"sync"

	"github.com/bolt-support/insights-service/internal/model"
)

// Store memoizes loaded exports by path, so repeated filter requests reuse
// the in-memory table instead of re-reading the file.
type Store struct {
	loader *Loader

	mu    sync.Mutex
	cache map[string][]model.Ticket
}

func NewStore(loader *Loader) *Store {
	return &Store{
		loader: loader,
		cache:  make(map[string][]model.Ticket),
	}
}

// Load returns the cached table for path, reading the file on first use.
// Failed loads are not cached, so a fixed file is picked up on retry.
func (s *Store) Load(path string) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tickets, ok := s.cache[path]; ok {
		return tickets, nil
	}
	tickets, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	s.cache[path] = tickets
	return tickets, nil
}

// Reload drops the cached table for path and reads the file again.
func (s *Store) Reload(path string) ([]model.Ticket, error) {
	s.mu.Lock()
	delete(s.cache, path)
	s.mu.Unlock()
	return s.Load(path)
}
