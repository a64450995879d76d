package hottub

import (
	"context"
	"log/slog"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/relay"
)

// ShouldHeat is the heater policy. The heater may only run while the water is below the goal and
// the goal is at or under the ceiling. A positive hysteresis delays turning on until the water has
// dropped that far below the goal.
func ShouldHeat(current, goal, ceiling, hysteresis float64, heating bool) bool {
	if goal > ceiling || current >= goal {
		return false
	}

	if heating {
		return true
	}

	return current < goal-hysteresis
}

func NewControlLoop(tub *HotTub, interval time.Duration, onTransition func(Transition)) *ControlLoop {
	if interval <= 0 {
		interval = DEFAULT_CONTROL_INTERVAL
	}

	return &ControlLoop{
		tub:          tub,
		interval:     interval,
		onTransition: onTransition,
	}
}

// Evaluate runs one control tick and returns the resulting heater state. The relay is only written
// when the state changes.
func (l *ControlLoop) Evaluate() (HeaterState, error) {
	h := l.tub
	current := h.CurrentTemp()
	goal := h.GoalTemp()

	h.heaterMu.Lock()
	heating := h.heaterActive
	want := ShouldHeat(current, goal, h.settings.CeilingF(), h.settings.HysteresisF, heating)
	if want == heating {
		h.heaterMu.Unlock()
		return stateOf(heating), nil
	}

	if err := h.relays.Set(relay.HEATER, want); err != nil {
		h.heaterMu.Unlock()
		return stateOf(heating), err
	}
	h.heaterActive = want
	h.heaterMu.Unlock()

	t := Transition{
		State:               stateOf(want),
		CurrentTemperatureF: current,
		GoalTemperatureF:    goal,
		At:                  time.Now().UTC(),
	}

	slog.Info("heater transition", "state", t.State, "current", current, "goal", goal)

	if l.onTransition != nil {
		l.onTransition(t)
	}

	return t.State, nil
}

// Run evaluates once per interval until ctx is canceled. A relay failure ends the loop with the
// error since the heater state is no longer known.
func (l *ControlLoop) Run(ctx context.Context) error {
	slog.Debug(">>ControlLoop.Run", "interval", l.interval)
	defer slog.Debug("<<ControlLoop.Run")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if _, err := l.Evaluate(); err != nil {
			slog.Error("control loop stopped on relay failure", "error", err)
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func stateOf(on bool) HeaterState {
	if on {
		return HeaterOn
	}
	return HeaterOff
}
