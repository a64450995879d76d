package sensor

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const DEFAULT_POLL_INTERVAL = 1 * time.Second

func NewReader(probe Probe, config ReaderConfig) *Reader {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_POLL_INTERVAL
	}

	return &Reader{
		probe:  probe,
		config: config,
	}
}

// PollOnce reads a single calibrated sample and returns it in degrees Fahrenheit.
func (r *Reader) PollOnce() (float64, error) {
	c, err := r.probe.ReadCelsius()
	if err != nil {
		return 0, err
	}

	return CelsiusToFahrenheit(c + r.config.CalibrationOffsetCelsius), nil
}

// Sample polls the probe and decides what should be published. A malformed sample is skipped so
// the previous value stays in place. An empty or unreadable sample publishes the fail-safe reading,
// which is above the heater ceiling.
func (r *Reader) Sample() (TemperatureReading, bool) {
	tr := TemperatureReading{
		Name:   r.config.Name,
		ReadAt: time.Now().UTC(),
	}

	c, err := r.probe.ReadCelsius()
	if err != nil {
		if errors.Is(err, ErrMalformedSample) {
			slog.Warn("skipping malformed temperature sample", "name", r.config.Name, "error", err)
			return tr, false
		}

		slog.Error("failed to read temperature probe, publishing fail-safe reading", "name", r.config.Name, "error", err)
		tr.TemperatureF = r.config.FailSafeTemperatureF
		tr.TemperatureC = (tr.TemperatureF - 32) * 5 / 9
		tr.FailSafe = true
		tr.Err = err

		return tr, true
	}

	c += r.config.CalibrationOffsetCelsius
	tr.TemperatureC = c
	tr.TemperatureF = CelsiusToFahrenheit(c)

	return tr, true
}

// Run polls the probe once per interval and hands every publishable reading to publish until ctx
// is canceled.
func (r *Reader) Run(ctx context.Context, publish func(TemperatureReading)) {
	slog.Debug(">>sensor.Run", "interval", r.config.Interval)
	defer slog.Debug("<<sensor.Run")

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		if tr, ok := r.Sample(); ok {
			publish(tr)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
