package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/internal/sensor"
	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_HISTORY_INTERVAL = 30 * time.Second
	NOTIFY_QUEUE_SIZE        = 16
	HEATER_EVENT_QUEUE_SIZE  = 32
)

type (
	NotificationTask struct {
		Message string
	}

	Intervals struct {
		Sensor  time.Duration
		Control time.Duration
		History time.Duration
	}

	// Notifier sends a message to the owner. *notify.Notify satisfies it.
	Notifier interface {
		Send(ctx context.Context, subject, message string) error
	}

	MonitorStore interface {
		SaveTemperature(ctx context.Context, arg database.SaveTemperatureParams) (database.Temperature, error)
		SaveHeaterEvent(ctx context.Context, arg database.SaveHeaterEventParams) (database.HeaterEvent, error)
	}

	MonitorContext struct {
		tub       *hottub.HotTub
		reader    *sensor.Reader
		store     MonitorStore
		notifier  Notifier
		intervals Intervals

		ctx               context.Context
		group             *errgroup.Group
		monitorCancelFunc context.CancelFunc
		stopOnce          sync.Once
		stopErr           error

		NotifyCh     chan NotificationTask
		heaterEvents chan hottub.Transition

		// only touched by the sensor goroutine
		haveReading bool
	}
)
