package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps uploaded objects in memory. Used in tests and as a
// local fallback when no media service is configured.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (s *MemoryStore) Upload(_ context.Context, file File) (Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	publicID := uuid.New().String()
	s.objects[publicID] = file.Data
	return Object{
		URL:      "memory://" + publicID + "/" + file.Name,
		PublicID: publicID,
	}, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[publicID]; !ok {
		return fmt.Errorf("object %s not found", publicID)
	}
	delete(s.objects, publicID)
	return nil
}

// Contains reports whether the backing object for publicID still exists.
func (s *MemoryStore) Contains(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[publicID]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
