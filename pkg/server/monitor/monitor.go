package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/internal/sensor"
	"golang.org/x/sync/errgroup"
)

// InitializeMonitorContext wires the loops together. Nothing runs until Start is called. store and
// notifier may be nil.
func InitializeMonitorContext(tub *hottub.HotTub, reader *sensor.Reader, store MonitorStore, notifier Notifier, intervals Intervals) *MonitorContext {
	slog.Debug(">>InitializeMonitorContext")
	defer slog.Debug("<<InitializeMonitorContext")

	if intervals.Control <= 0 {
		intervals.Control = hottub.DEFAULT_CONTROL_INTERVAL
	}

	if intervals.History <= 0 {
		intervals.History = DEFAULT_HISTORY_INTERVAL
	}

	return &MonitorContext{
		tub:          tub,
		reader:       reader,
		store:        store,
		notifier:     notifier,
		intervals:    intervals,
		NotifyCh:     make(chan NotificationTask, NOTIFY_QUEUE_SIZE),
		heaterEvents: make(chan hottub.Transition, HEATER_EVENT_QUEUE_SIZE),
	}
}

// Start puts the relays in their startup state and launches the monitor routines.
func (mctx *MonitorContext) Start() error {
	slog.Debug(">>Start")
	defer slog.Debug("<<Start")

	if err := mctx.tub.Start(); err != nil {
		// leave nothing energized if startup could not complete
		if shutdownErr := mctx.tub.Shutdown(); shutdownErr != nil {
			slog.Error("failed to turn relays off", "error", shutdownErr)
			err = errors.Join(err, shutdownErr)
		}
		return fmt.Errorf("start hot tub: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	mctx.monitorCancelFunc = cancel
	mctx.group, mctx.ctx = errgroup.WithContext(ctx)

	mctx.startMonitorRoutines()

	return nil
}

// Done is closed once the monitor is canceled or one of its routines fails.
// Before Start it returns a nil channel, which never fires.
func (mctx *MonitorContext) Done() <-chan struct{} {
	if mctx.ctx == nil {
		return nil
	}

	return mctx.ctx.Done()
}

// CancelAndWait stops the loops, waits for them to exit and only then turns every relay off. The
// returned error is the fatal error that stopped the monitor, if any.
func (mctx *MonitorContext) CancelAndWait() error {
	mctx.stopOnce.Do(func() {
		slog.Info(">>CancelAndWait")
		defer slog.Info("<<CancelAndWait")

		if mctx.group == nil {
			// never started, only the relays need attention
			mctx.stopErr = mctx.tub.Shutdown()
			return
		}

		mctx.monitorCancelFunc()

		// wait until all go routines have exited
		err := mctx.group.Wait()

		// de-energize only after nothing else can write a relay
		if shutdownErr := mctx.tub.Shutdown(); shutdownErr != nil {
			slog.Error("failed to turn relays off", "error", shutdownErr)
			err = errors.Join(err, shutdownErr)
		}

		if err != nil {
			mctx.sendNow(fmt.Sprintf("Hot tub controller stopped on a fault: %v", err))
		}

		mctx.stopErr = err
	})

	return mctx.stopErr
}

func (mctx *MonitorContext) startMonitorRoutines() {
	mctx.group.Go(mctx.monitorNotifications)
	mctx.group.Go(mctx.monitorTemperatures)
	mctx.group.Go(mctx.monitorHeater)
	mctx.group.Go(mctx.monitorHistory)
	mctx.group.Go(mctx.monitorFailures)
}

func (mctx *MonitorContext) monitorTemperatures() error {
	slog.Debug(">>monitorTemperatures")
	defer slog.Debug("<<monitorTemperatures")

	mctx.reader.Run(mctx.ctx, mctx.publishReading)
	return nil
}

func (mctx *MonitorContext) publishReading(tr sensor.TemperatureReading) {
	wasFailSafe := mctx.tub.SensorFailSafe()
	mctx.tub.PublishReading(tr)

	if tr.FailSafe && !wasFailSafe {
		mctx.notify("Temperature probe could not be read, heater disabled")
	} else if !tr.FailSafe && wasFailSafe && mctx.haveReading {
		mctx.notify(fmt.Sprintf("Temperature probe recovered, water is %.1f°F", tr.TemperatureF))
	}

	mctx.haveReading = true
}

func (mctx *MonitorContext) monitorHeater() error {
	slog.Debug(">>monitorHeater")
	defer slog.Debug("<<monitorHeater")

	loop := hottub.NewControlLoop(mctx.tub, mctx.intervals.Control, mctx.heaterTransition)
	return loop.Run(mctx.ctx)
}

// heaterTransition runs on the control loop, so it only queues work.
func (mctx *MonitorContext) heaterTransition(t hottub.Transition) {
	if mctx.store != nil {
		select {
		case mctx.heaterEvents <- t:
		default:
			slog.Warn("heater event queue is full, dropping event", "state", t.State)
		}
	}

	settings := mctx.tub.Settings()
	if t.State == hottub.HeaterOff &&
		t.CurrentTemperatureF >= t.GoalTemperatureF &&
		t.GoalTemperatureF <= settings.CeilingF() &&
		!mctx.tub.SensorFailSafe() {
		mctx.notify(fmt.Sprintf("Hot tub reached %.1f°F", t.GoalTemperatureF))
	}
}

func (mctx *MonitorContext) monitorHistory() error {
	slog.Debug(">>monitorHistory")
	defer slog.Debug("<<monitorHistory")

	if mctx.store == nil {
		slog.Info("no history store configured, temperatures will not be saved")
		<-mctx.ctx.Done()
		return nil
	}

	ticker := time.NewTicker(mctx.intervals.History)
	defer ticker.Stop()

	for {
		select {
		case <-mctx.ctx.Done():
			slog.Debug("monitorHistory: context done")
			return nil

		case <-ticker.C:
			mctx.saveCurrentTemperature()

		case t := <-mctx.heaterEvents:
			mctx.saveHeaterEvent(t)
		}
	}
}

func (mctx *MonitorContext) saveCurrentTemperature() {
	s := mctx.tub.Snapshot()

	// the probe has not reported yet
	if s.LastReadingAt.IsZero() {
		return
	}

	arg := database.SaveTemperatureParams{
		WaterTemp: s.CurrentTemperatureF,
		GoalTemp:  s.GoalTemperatureF,
		FailSafe:  s.SensorFailSafe,
	}

	_, err := mctx.store.SaveTemperature(mctx.ctx, arg)
	if err != nil {
		slog.Error("failed to save the water temperature", "error", err)
	}
}

func (mctx *MonitorContext) saveHeaterEvent(t hottub.Transition) {
	arg := database.SaveHeaterEventParams{
		CreatedAt: t.At,
		HeaterOn:  t.State == hottub.HeaterOn,
		WaterTemp: t.CurrentTemperatureF,
		GoalTemp:  t.GoalTemperatureF,
	}

	_, err := mctx.store.SaveHeaterEvent(mctx.ctx, arg)
	if err != nil {
		slog.Error("failed to save the heater event", "error", err)
	}
}

// monitorFailures ends the group when an actuator fails outside the control loop.
func (mctx *MonitorContext) monitorFailures() error {
	select {
	case <-mctx.ctx.Done():
		return nil
	case err := <-mctx.tub.Failures():
		slog.Error("relay failure reported, shutting down", "error", err)
		return err
	}
}

func (mctx *MonitorContext) monitorNotifications() error {
	slog.Debug(">>monitorNotifications")
	defer slog.Debug("<<monitorNotifications")

	for {
		select {
		case <-mctx.ctx.Done():
			slog.Debug("monitorNotifications: context done")
			return nil

		case task := <-mctx.NotifyCh:
			mctx.send(mctx.ctx, task.Message)
		}
	}
}

func (mctx *MonitorContext) notify(message string) {
	select {
	case mctx.NotifyCh <- NotificationTask{Message: message}:
	default:
		slog.Warn("notification queue is full, dropping message", "message", message)
	}
}

// sendNow delivers a message after the notification routine has exited.
func (mctx *MonitorContext) sendNow(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mctx.send(ctx, message)
}

func (mctx *MonitorContext) send(ctx context.Context, message string) {
	if mctx.notifier == nil {
		slog.Warn("Notifier is not registered for notifications", "message", message)
		return
	}

	err := mctx.notifier.Send(ctx, "Hot Tub Notification", message)
	if err != nil {
		slog.Error("failed to send message", "error", err, "message", message)
	}
}
