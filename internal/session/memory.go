package session

import (
	"context"
	"sync"

	"github.com/mwiater/prefdash/internal/dashboard"
)

type memoryKey struct {
	id       string
	pipeline dashboard.PipelineName
}

// Memory keeps states in process memory; they are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	states map[memoryKey]dashboard.SelectionState
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[memoryKey]dashboard.SelectionState)}
}

func (m *Memory) Load(_ context.Context, id string, pipeline dashboard.PipelineName) (dashboard.SelectionState, bool, error) {
	if err := ValidateID(id); err != nil {
		return dashboard.SelectionState{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[memoryKey{id: id, pipeline: pipeline}]
	if !ok {
		return dashboard.SelectionState{}, false, nil
	}
	return state.Clone(), true, nil
}

func (m *Memory) Save(_ context.Context, id string, state dashboard.SelectionState) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[memoryKey{id: id, pipeline: state.Pipeline}] = state.Clone()
	return nil
}

func (m *Memory) Close() error { return nil }
