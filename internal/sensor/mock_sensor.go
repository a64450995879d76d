package sensor

import (
	"log/slog"
)

// NewMockProbe returns a probe that replays the given raw samples in order and then keeps
// returning the last one.
func NewMockProbe(samples ...string) *MockProbe {
	return &MockProbe{samples: samples}
}

func (m *MockProbe) ReadCelsius() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, m.err
	}

	if len(m.samples) == 0 {
		return ParseSample("")
	}

	sample := m.samples[m.next]
	if m.next < len(m.samples)-1 {
		m.next++
	}

	slog.Debug("mock probe sample", "raw", sample)

	return ParseSample(sample)
}

// SetSamples replaces the scripted samples and rewinds the probe.
func (m *MockProbe) SetSamples(samples ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples = samples
	m.next = 0
	m.err = nil
}

// SetError makes every following read fail with err until SetSamples is called.
func (m *MockProbe) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}
