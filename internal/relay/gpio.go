package relay

import (
	"fmt"
	"log/slog"

	"github.com/stianeikeland/go-rpio/v4"
)

// NewGPIODriver maps the Raspberry Pi GPIO registers. The mapping stays open until Close.
func NewGPIODriver() (*GPIODriver, error) {
	slog.Debug(">>NewGPIODriver")
	defer slog.Debug("<<NewGPIODriver")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	return &GPIODriver{}, nil
}

// Write sets the output level for the device and reads it back to confirm the line followed.
func (d *GPIODriver) Write(device DeviceConfig, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pin := rpio.Pin(device.Pin)
	pin.Output()

	level := onLevel(device)
	if !on {
		level ^= 1
	}

	pin.Write(level)

	if res := pin.Read(); res != level {
		return fmt.Errorf("gpio %d reads %d after writing %d", device.Pin, res, level)
	}

	return nil
}

func (d *GPIODriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return rpio.Close()
}
