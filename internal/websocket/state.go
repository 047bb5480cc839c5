package websocket

import "sync"

// State is the mediator's authoritative parameter table. One instance is
// created at startup and shared by reference with every connection handler;
// it is the single source of truth, so concurrent writers get last-write-wins
// semantics behind the mutex.
type State struct {
	mu     sync.RWMutex
	params map[string]interface{}
}

// NewState creates a parameter table seeded with the conventional defaults.
func NewState() *State {
	return &State{
		params: map[string]interface{}{
			"cfg":      7.5,
			"strength": 0.6,
			"noise":    0.15,
		},
	}
}

// Read returns the stored value, or 0 when the parameter has never been
// written.
func (s *State) Read(param string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.params[param]; ok {
		return value
	}
	return 0
}

// Write stores one parameter value.
func (s *State) Write(param string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[param] = value
}

// Snapshot copies the current table, for status endpoints.
func (s *State) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.params))
	for param, value := range s.params {
		out[param] = value
	}
	return out
}

// Len returns the number of stored parameters.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.params)
}
