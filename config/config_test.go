package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(body), 0644))
	return filename
}

func TestLoadConfigSettings(t *testing.T) {
	t.Run("should load the shipped config", func(t *testing.T) {
		config, err := LoadConfigSettings("config.json")
		require.NoError(t, err)

		assert.Equal(t, hottub.MAXIMUM_TEMP_F, config.Control.MaximumTemperatureF)
		assert.Equal(t, hottub.DEFAULT_GOAL_TEMP_F, config.Control.DefaultGoalTemperatureF)
		require.Len(t, config.Relays, 3)
		assert.Equal(t, relay.HEATER, config.Relays[2].Name)
		assert.Equal(t, 27, config.Relays[2].Pin)
		assert.Equal(t, time.Second, config.ControlInterval())
		assert.Equal(t, 30*time.Second, config.HistoryInterval())
	})

	t.Run("should keep defaults for missing settings", func(t *testing.T) {
		config, err := LoadConfigSettings(writeConfig(t, `{"control": {"hysteresis_f": 0.5}}`))
		require.NoError(t, err)

		assert.Equal(t, 0.5, config.Control.HysteresisF)
		assert.Equal(t, hottub.MAXIMUM_TEMP_F, config.Control.MaximumTemperatureF)
		assert.Equal(t, time.Second, config.SensorInterval())
		assert.Len(t, config.Relays, 3)
	})

	t.Run("should reject invalid settings", func(t *testing.T) {
		_, err := LoadConfigSettings(writeConfig(t, `{"sensor_interval_seconds": 0}`))
		assert.Error(t, err)

		_, err = LoadConfigSettings(writeConfig(t, `{"control": {"hysteresis_f": -1}}`))
		assert.Error(t, err)
	})

	t.Run("should reject a ceiling above the hard limit", func(t *testing.T) {
		_, err := LoadConfigSettings(writeConfig(t, `{"control": {"maximum_temperature_f": 120}}`))
		assert.Error(t, err)
	})

	t.Run("should accept a lower ceiling", func(t *testing.T) {
		config, err := LoadConfigSettings(writeConfig(t, `{"control": {"maximum_temperature_f": 100}}`))
		require.NoError(t, err)
		assert.Equal(t, 100.0, config.Control.MaximumTemperatureF)
	})

	t.Run("should fail on malformed json", func(t *testing.T) {
		_, err := LoadConfigSettings(writeConfig(t, `{"relays": `))
		assert.Error(t, err)
	})

	t.Run("should report a missing file", func(t *testing.T) {
		_, err := LoadConfigSettings(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
