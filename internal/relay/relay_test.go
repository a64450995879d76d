package relay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBank(t *testing.T) (*Bank, *MockDriver) {
	t.Helper()

	driver := NewMockDriver()
	bank, err := NewBank(driver, []DeviceConfig{
		{Name: CIRCULATION, Pin: 17},
		{Name: JETS, Pin: 22},
		{Name: HEATER, Pin: 27, NormallyOn: true},
	})
	require.NoError(t, err)

	return bank, driver
}

func TestNewBank(t *testing.T) {
	t.Run("should reject duplicate relay names", func(t *testing.T) {
		_, err := NewBank(NewMockDriver(), []DeviceConfig{{Name: JETS, Pin: 22}, {Name: JETS, Pin: 23}})
		assert.Error(t, err)
	})

	t.Run("should reject unnamed relays", func(t *testing.T) {
		_, err := NewBank(NewMockDriver(), []DeviceConfig{{Pin: 22}})
		assert.Error(t, err)
	})

	t.Run("should keep configuration order", func(t *testing.T) {
		bank, _ := newTestBank(t)
		assert.Equal(t, []string{CIRCULATION, JETS, HEATER}, bank.Names())
		assert.True(t, bank.Has(HEATER))
		assert.False(t, bank.Has("lights"))
	})
}

func TestSet(t *testing.T) {
	bank, driver := newTestBank(t)

	require.NoError(t, bank.Set(HEATER, true))
	assert.True(t, bank.IsOn(HEATER))

	// setting the same state again is safe
	require.NoError(t, bank.Set(HEATER, true))
	assert.True(t, bank.IsOn(HEATER))

	require.NoError(t, bank.Set(HEATER, false))
	assert.False(t, bank.IsOn(HEATER))

	assert.Equal(t, []MockWrite{
		{Name: HEATER, On: true},
		{Name: HEATER, On: true},
		{Name: HEATER, On: false},
	}, driver.WritesFor(HEATER))
}

func TestToggle(t *testing.T) {
	bank, _ := newTestBank(t)

	on, err := bank.Toggle(JETS)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, bank.IsOn(JETS))

	on, err = bank.Toggle(JETS)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, bank.IsOn(JETS))
}

func TestWriteFailure(t *testing.T) {
	bank, driver := newTestBank(t)
	require.NoError(t, bank.Set(JETS, true))

	driver.FailWith(JETS, errors.New("line stuck"))

	on, err := bank.Toggle(JETS)
	assert.ErrorIs(t, err, ErrRelayWrite)
	assert.True(t, on, "a failed toggle reports the last commanded state")
	assert.True(t, bank.IsOn(JETS))

	err = bank.Set(JETS, false)
	assert.ErrorIs(t, err, ErrRelayWrite)
}

func TestAllOff(t *testing.T) {
	bank, driver := newTestBank(t)
	require.NoError(t, bank.Set(CIRCULATION, true))
	require.NoError(t, bank.Set(JETS, true))
	require.NoError(t, bank.Set(HEATER, true))

	driver.FailWith(JETS, errors.New("line stuck"))

	err := bank.AllOff()
	assert.ErrorIs(t, err, ErrRelayWrite)

	// the remaining relays are still turned off
	assert.False(t, bank.IsOn(CIRCULATION))
	assert.False(t, bank.IsOn(HEATER))
	assert.True(t, bank.IsOn(JETS))
}

func TestUnknownRelayPanics(t *testing.T) {
	bank, _ := newTestBank(t)

	assert.Panics(t, func() { bank.Set("lights", true) })
	assert.Panics(t, func() { bank.IsOn("lights") })
	assert.Panics(t, func() { bank.Toggle("lights") })
}

func TestOnLevel(t *testing.T) {
	assert.EqualValues(t, 1, onLevel(DeviceConfig{}))
	assert.EqualValues(t, 0, onLevel(DeviceConfig{NormallyOn: true}))
}
