package hottub

import (
	"errors"
	"math"
	"sync"
	"time"
)

const (
	MAXIMUM_TEMP_F           float64 = 104
	DEFAULT_GOAL_TEMP_F      float64 = 90
	DEFAULT_CONTROL_INTERVAL         = 1 * time.Second
)

var ErrInvalidInput = errors.New("goal temperature must be a finite number")

const (
	HeaterOff HeaterState = iota
	HeaterOn
)

type (
	HeaterState int

	Settings struct {
		MaximumTemperatureF     float64 `json:"maximum_temperature_f"`
		DefaultGoalTemperatureF float64 `json:"default_goal_temperature_f"`
		HysteresisF             float64 `json:"hysteresis_f"`
	}

	// RelayBank is the set of named outputs the hot tub drives.
	RelayBank interface {
		Has(name string) bool
		Set(name string, on bool) error
		Toggle(name string) (bool, error)
		IsOn(name string) bool
		AllOff() error
	}

	// HotTub owns the state shared between the sensor loop, the control loop and the API handlers.
	HotTub struct {
		settings Settings
		relays   RelayBank

		tempMu        sync.RWMutex
		currentTemp   float64
		failSafe      bool
		lastReadingAt time.Time

		goalMu   sync.RWMutex
		goalTemp float64

		heaterMu     sync.RWMutex
		heaterActive bool

		failures chan error
	}

	Snapshot struct {
		CurrentTemperatureF float64   `json:"current_temp"`
		GoalTemperatureF    float64   `json:"goal_temp"`
		MaximumTemperatureF float64   `json:"maximum_temp"`
		HeaterOn            bool      `json:"heater_on"`
		JetsOn              bool      `json:"jets_on"`
		CirculationOn       bool      `json:"circulation_on"`
		SensorFailSafe      bool      `json:"sensor_fail_safe"`
		LastReadingAt       time.Time `json:"last_reading_at,omitempty"`
	}

	Transition struct {
		State               HeaterState
		CurrentTemperatureF float64
		GoalTemperatureF    float64
		At                  time.Time
	}

	ControlLoop struct {
		tub          *HotTub
		interval     time.Duration
		onTransition func(Transition)
	}
)

func (s HeaterState) String() string {
	if s == HeaterOn {
		return "HEATER_ON"
	}
	return "HEATER_OFF"
}

// DefaultSettings returns the stock limits for the tub.
func DefaultSettings() Settings {
	return Settings{
		MaximumTemperatureF:     MAXIMUM_TEMP_F,
		DefaultGoalTemperatureF: DEFAULT_GOAL_TEMP_F,
	}
}

// CeilingF is the configured ceiling, never above MAXIMUM_TEMP_F.
func (s Settings) CeilingF() float64 {
	return math.Min(s.MaximumTemperatureF, MAXIMUM_TEMP_F)
}

// FailSafeTemperatureF is the reading published when the probe cannot be read. It sits above the
// ceiling so the heater is always commanded off.
func (s Settings) FailSafeTemperatureF() float64 {
	return s.MaximumTemperatureF + 1
}
