package hottub

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/KyleBrandon/hottub-server/internal/relay"
	"github.com/KyleBrandon/hottub-server/internal/sensor"
)

// New builds the hot tub around its relays. No relay is touched and no goroutine is started until
// Start is called.
func New(relays RelayBank, settings Settings) (*HotTub, error) {
	slog.Debug(">>hottub.New")
	defer slog.Debug("<<hottub.New")

	if !relays.Has(relay.HEATER) {
		return nil, errors.New("hot tub requires a heater relay")
	}

	if !relays.Has(relay.JETS) {
		return nil, errors.New("hot tub requires a jets relay")
	}

	if settings.MaximumTemperatureF <= 0 {
		settings.MaximumTemperatureF = MAXIMUM_TEMP_F
	}

	if settings.MaximumTemperatureF > MAXIMUM_TEMP_F {
		return nil, fmt.Errorf("maximum temperature %v is above the %v°F ceiling", settings.MaximumTemperatureF, MAXIMUM_TEMP_F)
	}

	if settings.DefaultGoalTemperatureF == 0 {
		settings.DefaultGoalTemperatureF = DEFAULT_GOAL_TEMP_F
	}

	if settings.HysteresisF < 0 {
		return nil, fmt.Errorf("hysteresis must not be negative: %v", settings.HysteresisF)
	}

	return &HotTub{
		settings: settings,
		relays:   relays,
		// until the first reading arrives the temperature is unknown, so start in fail-safe
		currentTemp: settings.FailSafeTemperatureF(),
		failSafe:    true,
		goalTemp:    settings.DefaultGoalTemperatureF,
		failures:    make(chan error, 1),
	}, nil
}

// Start puts every relay in a known state: heater and jets off, circulation on.
func (h *HotTub) Start() error {
	slog.Info(">>hottub.Start")
	defer slog.Info("<<hottub.Start")

	if err := h.relays.AllOff(); err != nil {
		return err
	}

	h.heaterMu.Lock()
	h.heaterActive = false
	h.heaterMu.Unlock()

	if h.relays.Has(relay.CIRCULATION) {
		if err := h.relays.Set(relay.CIRCULATION, true); err != nil {
			return err
		}
	}

	return nil
}

// Shutdown commands every relay off. Callers must stop the loops first.
func (h *HotTub) Shutdown() error {
	slog.Info(">>hottub.Shutdown")
	defer slog.Info("<<hottub.Shutdown")

	h.heaterMu.Lock()
	defer h.heaterMu.Unlock()

	err := h.relays.AllOff()
	h.heaterActive = h.relays.IsOn(relay.HEATER)

	return err
}

func (h *HotTub) Settings() Settings {
	return h.settings
}

// PublishReading replaces the current temperature with the latest sensor reading.
func (h *HotTub) PublishReading(tr sensor.TemperatureReading) {
	h.tempMu.Lock()
	defer h.tempMu.Unlock()

	h.currentTemp = tr.TemperatureF
	h.failSafe = tr.FailSafe
	h.lastReadingAt = tr.ReadAt
}

func (h *HotTub) CurrentTemp() float64 {
	h.tempMu.RLock()
	defer h.tempMu.RUnlock()

	return h.currentTemp
}

// SensorFailSafe reports whether the current temperature is the fail-safe substitute.
func (h *HotTub) SensorFailSafe() bool {
	h.tempMu.RLock()
	defer h.tempMu.RUnlock()

	return h.failSafe
}

func (h *HotTub) GoalTemp() float64 {
	h.goalMu.RLock()
	defer h.goalMu.RUnlock()

	return h.goalTemp
}

// SetGoalTemp parses value and replaces the goal. The ceiling is enforced by the control loop, not
// here, so any finite number is accepted.
func (h *HotTub) SetGoalTemp(value string) (float64, error) {
	goal, err := ParseGoalTemp(value)
	if err != nil {
		return h.GoalTemp(), err
	}

	h.goalMu.Lock()
	h.goalTemp = goal
	h.goalMu.Unlock()

	if goal > h.settings.CeilingF() {
		slog.Warn("goal is above the heater ceiling, heater will stay off", "goal", goal, "ceiling", h.settings.CeilingF())
	}

	slog.Info("goal temperature set", "goal", goal)

	return goal, nil
}

func ParseGoalTemp(value string) (float64, error) {
	text := strings.TrimSpace(value)
	if len(text) == 0 {
		return 0, fmt.Errorf("%w: no value", ErrInvalidInput)
	}

	// plain decimal only, no hex floats
	if strings.ContainsAny(text, "xXpP_") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}

	goal, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}

	if math.IsNaN(goal) || math.IsInf(goal, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, text)
	}

	return goal, nil
}

func (h *HotTub) HeaterActive() bool {
	h.heaterMu.RLock()
	defer h.heaterMu.RUnlock()

	return h.heaterActive
}

func (h *HotTub) JetsActive() bool {
	return h.relays.IsOn(relay.JETS)
}

// ToggleJets flips the jets pump. A relay failure is also reported on Failures so the process can
// shut down.
func (h *HotTub) ToggleJets() (bool, error) {
	on, err := h.relays.Toggle(relay.JETS)
	if err != nil {
		h.ReportFailure(err)
		return on, err
	}

	slog.Info("jets toggled", "on", on)
	return on, nil
}

func (h *HotTub) CirculationActive() bool {
	if !h.relays.Has(relay.CIRCULATION) {
		return false
	}
	return h.relays.IsOn(relay.CIRCULATION)
}

func (h *HotTub) Snapshot() Snapshot {
	h.tempMu.RLock()
	current := h.currentTemp
	failSafe := h.failSafe
	readAt := h.lastReadingAt
	h.tempMu.RUnlock()

	return Snapshot{
		CurrentTemperatureF: current,
		GoalTemperatureF:    h.GoalTemp(),
		MaximumTemperatureF: h.settings.CeilingF(),
		HeaterOn:            h.HeaterActive(),
		JetsOn:              h.JetsActive(),
		CirculationOn:       h.CirculationActive(),
		SensorFailSafe:      failSafe,
		LastReadingAt:       readAt,
	}
}

// Failures delivers fatal actuator errors raised outside the control loop.
func (h *HotTub) Failures() <-chan error {
	return h.failures
}

func (h *HotTub) ReportFailure(err error) {
	select {
	case h.failures <- err:
	default:
		// a failure is already pending, the process is going down anyway
	}
}
