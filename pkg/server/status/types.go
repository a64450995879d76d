package status

import (
	"time"

	"github.com/KyleBrandon/hottub-server/internal/hottub"
)

const (
	DEFAULT_STATUS_INTERVAL    = 1 * time.Second
	DEFAULT_HEARTBEAT_INTERVAL = 30 * time.Second
)

type (
	Snapshotter interface {
		Snapshot() hottub.Snapshot
	}

	SystemStatus struct {
		hottub.Snapshot
		AlertMessages []string `json:"alert_messages"`
	}

	Handler struct {
		tub               Snapshotter
		originPatterns    []string
		statusInterval    time.Duration
		heartbeatInterval time.Duration
	}
)
