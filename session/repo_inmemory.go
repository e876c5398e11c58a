package session

import (
	"context"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of Repo. Suitable
// for development and tests; production deployments with more than one
// instance should use the Redis repo.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string // sessionID -> key -> value
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]map[string]string),
	}
}

func (r *InMemoryRepo) Put(_ context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		r.sessions[sessionID] = make(map[string]string)
	}
	r.sessions[sessionID][key] = value
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.sessions[sessionID][key]
	return value, ok, nil
}

func (r *InMemoryRepo) PopOnce(_ context.Context, sessionID, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.sessions[sessionID][key]
	if ok {
		delete(r.sessions[sessionID], key)
	}
	return value, ok, nil
}

func (r *InMemoryRepo) ClearAll(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
