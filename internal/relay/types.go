package relay

import (
	"errors"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

const (
	HEATER      string = "heater"
	JETS        string = "jets"
	CIRCULATION string = "circulation"
)

var ErrRelayWrite = errors.New("relay write failed")

type (
	DeviceConfig struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Pin         int    `json:"pin"`
		NormallyOn  bool   `json:"normally_on,omitempty"`
	}

	// Driver drives the physical output line behind a relay.
	Driver interface {
		Write(device DeviceConfig, on bool) error
		Close() error
	}

	GPIODriver struct {
		mu sync.Mutex
	}

	MockWrite struct {
		Name string
		On   bool
	}

	MockDriver struct {
		mu     sync.Mutex
		writes []MockWrite
		fail   map[string]error
	}

	Bank struct {
		mu      sync.Mutex
		driver  Driver
		order   []string
		devices map[string]DeviceConfig
		states  map[string]bool
	}
)

// the pin level that means "on" for a device
func onLevel(device DeviceConfig) rpio.State {
	// if the device is normally on, that means the pin is low when it is on
	if device.NormallyOn {
		return rpio.Low
	}
	return rpio.High
}
