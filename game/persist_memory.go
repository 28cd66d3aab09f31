package game

import (
	"fmt"
	"sync"
)

type MemoryRoundStateTracker struct {
	mu           sync.Mutex
	activeRounds map[string][]byte
}

func NewMemoryRoundStateTracker() *MemoryRoundStateTracker {
	return &MemoryRoundStateTracker{
		activeRounds: make(map[string][]byte),
	}
}

func (m *MemoryRoundStateTracker) Load(handID string) (*RoundSnapshot, error) {
	m.mu.Lock()
	stateBytes, ok := m.activeRounds[handID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("Round state for hand: %s is not found", handID)
	}
	return UnmarshalRoundSnapshot(stateBytes)
}

func (m *MemoryRoundStateTracker) Save(handID string, state *RoundSnapshot) error {
	stateInBytes, err := state.Marshal()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.activeRounds[handID] = stateInBytes
	m.mu.Unlock()
	return nil
}

func (m *MemoryRoundStateTracker) Remove(handID string) error {
	m.mu.Lock()
	delete(m.activeRounds, handID)
	m.mu.Unlock()
	return nil
}
