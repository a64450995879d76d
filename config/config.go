package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/internal/relay"
	"github.com/KyleBrandon/hottub-server/internal/sensor"
)

const DefaultLogLevel = slog.LevelInfo

type Config struct {
	Probe                  sensor.ProbeConfig   `json:"probe"`
	Relays                 []relay.DeviceConfig `json:"relays"`
	Control                hottub.Settings      `json:"control"`
	SensorIntervalSeconds  int                  `json:"sensor_interval_seconds"`
	ControlIntervalSeconds int                  `json:"control_interval_seconds"`
	HistoryIntervalSeconds int                  `json:"history_interval_seconds"`
	OriginPatterns         []string             `json:"origin_patterns"`
	CORSAllowedOrigins     []string             `json:"cors_allowed_origins"`
}

// DefaultConfig matches the stock wiring: circulation on GPIO 17, jets on 22, heater on 27.
func DefaultConfig() Config {
	return Config{
		Probe: sensor.ProbeConfig{
			DriverType: sensor.DRIVERTYPE_W1FILE,
			Address:    sensor.DEFAULT_PROBE_PATTERN,
			Name:       "Water",
		},
		Relays: []relay.DeviceConfig{
			{Name: relay.CIRCULATION, Description: "Circulation pump", Pin: 17},
			{Name: relay.JETS, Description: "Jets pump", Pin: 22},
			{Name: relay.HEATER, Description: "Heater", Pin: 27},
		},
		Control:                hottub.DefaultSettings(),
		SensorIntervalSeconds:  1,
		ControlIntervalSeconds: 1,
		HistoryIntervalSeconds: 30,
	}
}

// LoadConfigSettings reads the JSON file over the defaults, so a file only needs the settings it
// changes.
func LoadConfigSettings(filename string) (Config, error) {
	config := DefaultConfig()
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}

	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return config, err
	}

	err = json.Unmarshal(bytes, &config)
	if err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.SensorIntervalSeconds <= 0 || c.ControlIntervalSeconds <= 0 || c.HistoryIntervalSeconds <= 0 {
		return fmt.Errorf("intervals must be positive: sensor=%d control=%d history=%d",
			c.SensorIntervalSeconds, c.ControlIntervalSeconds, c.HistoryIntervalSeconds)
	}

	if c.Control.MaximumTemperatureF <= 0 || c.Control.MaximumTemperatureF > hottub.MAXIMUM_TEMP_F {
		return fmt.Errorf("maximum temperature must be in (0, %v]: %v", hottub.MAXIMUM_TEMP_F, c.Control.MaximumTemperatureF)
	}

	if c.Control.HysteresisF < 0 {
		return fmt.Errorf("hysteresis must not be negative: %v", c.Control.HysteresisF)
	}

	return nil
}

func (c Config) SensorInterval() time.Duration {
	return time.Duration(c.SensorIntervalSeconds) * time.Second
}

func (c Config) ControlInterval() time.Duration {
	return time.Duration(c.ControlIntervalSeconds) * time.Second
}

func (c Config) HistoryInterval() time.Duration {
	return time.Duration(c.HistoryIntervalSeconds) * time.Second
}
