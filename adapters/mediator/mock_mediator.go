package mediator

import (
	"context"
	"errors"
	"sync"

	"github.com/janiluuk/defora/domain"
)

// ErrMockWriteRefused is returned by MockMediator for parameters marked as
// failing.
var ErrMockWriteRefused = errors.New("mock mediator refused write")

// MockMediator is an in-memory parameter store for tests. It records every
// write in order and can be told to fail specific parameters to exercise
// partial-success paths.
type MockMediator struct {
	mu     sync.Mutex
	params map[string]interface{}

	// Writes records every successful write in call order.
	Writes []domain.Write

	// FailParams marks parameters whose writes (and reads) fail.
	FailParams map[string]bool
}

// NewMockMediator creates an empty mock parameter store.
func NewMockMediator() *MockMediator {
	return &MockMediator{
		params:     make(map[string]interface{}),
		FailParams: make(map[string]bool),
	}
}

// Read returns the stored value, or 0 for unknown parameters like the real
// mediator does.
func (m *MockMediator) Read(ctx context.Context, param string) (domain.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailParams[param] {
		return domain.Reply{}, domain.NewConnectionError("mock", "recv", ErrMockWriteRefused)
	}
	value, ok := m.params[param]
	if !ok {
		value = 0
	}
	return domain.Reply{Value: value}, nil
}

// Write stores the value and echoes it back.
func (m *MockMediator) Write(ctx context.Context, param string, value interface{}) (domain.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailParams[param] {
		return domain.Reply{}, domain.NewConnectionError("mock", "send", ErrMockWriteRefused)
	}
	m.params[param] = value
	m.Writes = append(m.Writes, domain.Write{Param: param, Value: value})
	return domain.Reply{Value: []interface{}{param, value}}, nil
}

// WrittenParams lists the parameters written so far, in call order.
func (m *MockMediator) WrittenParams() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	params := make([]string, 0, len(m.Writes))
	for _, w := range m.Writes {
		params = append(params, w.Param)
	}
	return params
}

// HasWrite reports whether an exact (param, value) pair was recorded.
func (m *MockMediator) HasWrite(param string, value interface{}) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.Writes {
		if w.Param == param && w.Value == value {
			return true
		}
	}
	return false
}
