package forms

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MemoryStorage keeps sessions in an in-process map. Each instance owns its
// own table, so tests and embedded deployments can run isolated stores side
// by side. States are structurally cloned on the way in and out; dates stay
// time.Time values throughout.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{states: make(map[string]*State)}
}

func memoryKey(userID int64, formID string) string {
	return fmt.Sprintf("%d:%s", userID, formID)
}

func (m *MemoryStorage) Save(_ context.Context, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[memoryKey(state.UserID, state.FormID)] = state.Clone()
	return nil
}

func (m *MemoryStorage) Load(_ context.Context, userID int64, formID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[memoryKey(userID, formID)]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (m *MemoryStorage) Delete(_ context.Context, userID int64, formID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, memoryKey(userID, formID))
	return nil
}

func (m *MemoryStorage) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strconv.FormatInt(userID, 10) + ":"
	for key := range m.states {
		if strings.HasPrefix(key, prefix) {
			delete(m.states, key)
		}
	}
	return nil
}

func (m *MemoryStorage) AllActive(_ context.Context, userID int64) ([]*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var active []*State
	for _, state := range m.states {
		if state.UserID == userID && !state.IsComplete {
			active = append(active, state.Clone())
		}
	}
	return active, nil
}

// Len returns the number of stored sessions.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
