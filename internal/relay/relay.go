package relay

import (
	"errors"
	"fmt"
	"log/slog"
)

// NewBank binds the named relays to their output lines. Relay names are fixed for the life of the
// bank.
func NewBank(driver Driver, devices []DeviceConfig) (*Bank, error) {
	slog.Debug(">>NewBank")
	defer slog.Debug("<<NewBank")

	b := &Bank{
		driver:  driver,
		order:   make([]string, 0, len(devices)),
		devices: make(map[string]DeviceConfig, len(devices)),
		states:  make(map[string]bool, len(devices)),
	}

	for _, d := range devices {
		if len(d.Name) == 0 {
			return nil, errors.New("relay device is missing a name")
		}

		if _, ok := b.devices[d.Name]; ok {
			return nil, fmt.Errorf("relay %q is configured more than once", d.Name)
		}

		b.order = append(b.order, d.Name)
		b.devices[d.Name] = d
	}

	return b, nil
}

// Has reports whether a relay with the given name is part of the bank.
func (b *Bank) Has(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.devices[name]
	return ok
}

func (b *Bank) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, len(b.order))
	copy(names, b.order)
	return names
}

// Set drives the relay to the requested state. Writing the current state again is harmless.
func (b *Bank) Set(name string, on bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.set(name, on)
}

// Toggle flips the relay and returns its new state.
func (b *Bank) Toggle(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustDevice(name)
	on := !b.states[name]
	if err := b.set(name, on); err != nil {
		return b.states[name], err
	}

	return on, nil
}

// IsOn returns the last state commanded for the relay.
func (b *Bank) IsOn(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mustDevice(name)
	return b.states[name]
}

// AllOff commands every relay off, continuing past failures so one bad line does not leave the
// others energized.
func (b *Bank) AllOff() error {
	slog.Info(">>AllOff")
	defer slog.Info("<<AllOff")

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, name := range b.order {
		if err := b.set(name, false); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (b *Bank) Close() error {
	return b.driver.Close()
}

func (b *Bank) set(name string, on bool) error {
	device := b.mustDevice(name)

	slog.Debug("relay write", "name", name, "pin", device.Pin, "on", on)
	if err := b.driver.Write(device, on); err != nil {
		slog.Error("failed to write relay", "name", name, "pin", device.Pin, "on", on, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRelayWrite, name, err)
	}

	b.states[name] = on
	return nil
}

func (b *Bank) mustDevice(name string) DeviceConfig {
	device, ok := b.devices[name]
	if !ok {
		panic(fmt.Sprintf("relay: unknown relay %q", name))
	}
	return device
}
