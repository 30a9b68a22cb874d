package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Manager serialises read-modify-write cycles on session state.
type Manager struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Load returns the state for id, or a fresh one when none is stored.
func (m *Manager) Load(ctx context.Context, id string) (*State, error) {
	state, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NewState(id), nil
	}
	return state, err
}

// Update applies fn to the state for id and stores the result. Nothing is
// stored when fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UpdatedAt = m.now().UTC()
	if err := m.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset forgets everything stored for id.
func (m *Manager) Reset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, id)
}
