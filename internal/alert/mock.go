package alert

import "sync"

// MockActuator is a test implementation of the Actuator interface.
// It records every command and can be made to fail on demand.
type MockActuator struct {
	mu    sync.Mutex
	calls []bool
	err   error
}

// NewMockActuator creates a new MockActuator.
func NewMockActuator() *MockActuator {
	return &MockActuator{}
}

// SetError sets the error that will be returned by Set.
func (m *MockActuator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Set records the command and returns the configured error, if any.
func (m *MockActuator) Set(active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, active)
	return m.err
}

// Calls returns the recorded commands in order.
func (m *MockActuator) Calls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(m.calls))
	copy(out, m.calls)
	return out
}

// Active reports the state after the most recent command, or false if no
// command was issued.
func (m *MockActuator) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return false
	}
	return m.calls[len(m.calls)-1]
}
