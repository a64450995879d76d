package sensor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yryz/ds18b20"
)

// NewProbe builds the probe described by the device configuration. The mock flag wins over the
// configured driver so the server can run on a machine without a 1-wire bus.
func NewProbe(config ProbeConfig, useMock bool) (Probe, error) {
	slog.Debug(">>NewProbe", "driver", config.DriverType, "address", config.Address)
	defer slog.Debug("<<NewProbe")

	if useMock {
		return NewMockProbe("32222"), nil
	}

	switch config.DriverType {
	case DRIVERTYPE_DS18B20:
		probe, err := NewDS18B20Probe(config.Address)
		if err != nil {
			return nil, err
		}
		return probe, nil

	case DRIVERTYPE_W1FILE, "":
		pattern := config.Address
		if len(pattern) == 0 {
			pattern = DEFAULT_PROBE_PATTERN
		}

		probe, err := DiscoverProbe(pattern)
		if err != nil {
			return nil, err
		}
		return probe, nil
	}

	return nil, fmt.Errorf("unsupported probe driver %q", config.DriverType)
}

// DiscoverProbe returns a FileProbe for the first path matching pattern.
func DiscoverProbe(pattern string) (*FileProbe, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid probe pattern %q: %w", pattern, err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %s", ErrSensorUnavailable, pattern)
	}

	if len(matches) > 1 {
		slog.Warn("more than one temperature probe found, using the first", "probes", matches)
	}

	return &FileProbe{path: matches[0]}, nil
}

func NewFileProbe(path string) *FileProbe {
	return &FileProbe{path: path}
}

func (p *FileProbe) Path() string {
	return p.path
}

func (p *FileProbe) ReadCelsius() (float64, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return 0, fmt.Errorf("read probe %s: %w", p.path, err)
	}

	return ParseSample(string(raw))
}

// NewDS18B20Probe binds to the sensor with the given 1-wire id, or the first sensor on the bus
// when no id is configured.
func NewDS18B20Probe(address string) (*DS18B20Probe, error) {
	if len(address) != 0 {
		return &DS18B20Probe{address: address}, nil
	}

	sensors, err := ds18b20.Sensors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}

	if len(sensors) == 0 {
		return nil, ErrSensorUnavailable
	}

	return &DS18B20Probe{address: sensors[0]}, nil
}

func (p *DS18B20Probe) ReadCelsius() (float64, error) {
	t, err := ds18b20.Temperature(p.address)
	if err != nil {
		return 0, fmt.Errorf("read ds18b20 %s: %w", p.address, err)
	}

	return t, nil
}

// ParseSample decodes the probe's text blob, an integer count of thousandths of a degree Celsius.
func ParseSample(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if len(text) == 0 {
		return 0, ErrEmptySample
	}

	milli, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSample, text)
	}

	return float64(milli) / 1000, nil
}

func CelsiusToFahrenheit(c float64) float64 {
	return (c * 9 / 5) + 32
}
