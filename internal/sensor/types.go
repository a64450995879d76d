package sensor

import (
	"errors"
	"sync"
	"time"
)

const (
	DRIVERTYPE_DS18B20 string = "DS18B20"
	DRIVERTYPE_W1FILE  string = "W1_FILE"

	DEFAULT_PROBE_PATTERN string = "/sys/bus/w1/devices/28*/temperature"
)

var (
	ErrSensorUnavailable = errors.New("unable to open temperature probe")
	ErrEmptySample       = errors.New("temperature probe returned an empty sample")
	ErrMalformedSample   = errors.New("temperature probe returned a malformed sample")
)

type (
	ProbeConfig struct {
		DriverType               string  `json:"driver_type"`
		Address                  string  `json:"address"`
		Name                     string  `json:"name"`
		Description              string  `json:"description"`
		CalibrationOffsetCelsius float64 `json:"calibration_offset_celsius"`
	}

	TemperatureReading struct {
		Name         string    `json:"name,omitempty"`
		TemperatureC float64   `json:"temperature_c"`
		TemperatureF float64   `json:"temperature_f"`
		FailSafe     bool      `json:"fail_safe"`
		ReadAt       time.Time `json:"read_at"`
		Err          error     `json:"-"`
	}

	// Probe returns the latest sample from a temperature source in degrees Celsius.
	Probe interface {
		ReadCelsius() (float64, error)
	}

	FileProbe struct {
		path string
	}

	DS18B20Probe struct {
		address string
	}

	MockProbe struct {
		mu      sync.Mutex
		samples []string
		next    int
		err     error
	}

	ReaderConfig struct {
		Name                     string
		Interval                 time.Duration
		CalibrationOffsetCelsius float64
		FailSafeTemperatureF     float64
	}

	Reader struct {
		probe  Probe
		config ReaderConfig
	}
)
