package relay

// NewMockDriver returns an in-memory driver for development and tests.
func NewMockDriver() *MockDriver {
	return &MockDriver{
		writes: make([]MockWrite, 0),
		fail:   make(map[string]error),
	}
}

func (m *MockDriver) Write(device DeviceConfig, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.fail[device.Name]; ok {
		return err
	}

	m.writes = append(m.writes, MockWrite{Name: device.Name, On: on})
	return nil
}

func (m *MockDriver) Close() error {
	return nil
}

// FailWith makes writes to the named relay fail. A nil error clears the failure.
func (m *MockDriver) FailWith(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.fail, name)
		return
	}
	m.fail[name] = err
}

// Writes returns the successful writes in the order they happened.
func (m *MockDriver) Writes() []MockWrite {
	m.mu.Lock()
	defer m.mu.Unlock()

	writes := make([]MockWrite, len(m.writes))
	copy(writes, m.writes)
	return writes
}

// WritesFor returns the successful writes for one relay.
func (m *MockDriver) WritesFor(name string) []MockWrite {
	m.mu.Lock()
	defer m.mu.Unlock()

	writes := make([]MockWrite, 0)
	for _, w := range m.writes {
		if w.Name == name {
			writes = append(writes, w)
		}
	}
	return writes
}
