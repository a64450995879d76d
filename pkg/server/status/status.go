package status

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KyleBrandon/hottub-server/pkg/utils"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func NewHandler(tub Snapshotter, originPatterns []string) *Handler {
	h := Handler{
		tub:               tub,
		originPatterns:    originPatterns,
		statusInterval:    DEFAULT_STATUS_INTERVAL,
		heartbeatInterval: DEFAULT_HEARTBEAT_INTERVAL,
	}

	return &h
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/status", h.handleStatusGet)
	mux.HandleFunc("/v1/status/ws", h.handleStatusWS)
}

func (h *Handler) handleStatusGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handleStatusGet")

	utils.RespondWithJSON(w, http.StatusOK, h.buildSystemStatus())
}

func (h *Handler) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handleWS: new incoming connection")
	defer slog.Debug("<<handleWS")

	opts := &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	}
	c, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("websocket accept error:", "error", err)
		return
	}

	defer c.Close(websocket.StatusInternalError, "Unexpected connection close")

	ctx := c.CloseRead(r.Context())

	h.monitorStatus(ctx, c)
}

// monitorStatus pushes a status message every interval until the client goes away.
func (h *Handler) monitorStatus(ctx context.Context, c *websocket.Conn) {
	slog.Debug(">>monitorStatus")
	defer slog.Debug("<<monitorStatus")

	ticker := time.NewTicker(h.statusInterval)
	heartbeatTicker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()
	defer heartbeatTicker.Stop()

	// send the first status right away so clients do not wait a full interval
	if err := wsjson.Write(ctx, c, h.buildSystemStatus()); err != nil {
		slog.Error("monitorStatus: error writing to client", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitorStatus: client disconnected")
			c.Close(websocket.StatusNormalClosure, "Connection closed")
			return

		case <-ticker.C:
			err := wsjson.Write(ctx, c, h.buildSystemStatus())
			if err != nil {
				slog.Error("monitorStatus: error writing to client", "error", err)
				c.Close(websocket.StatusInternalError, "error writing status")
				return
			}

		case <-heartbeatTicker.C:
			err := c.Ping(ctx)
			if err != nil {
				slog.Error("monitorStatus: error sending ping", "error", err)
				c.Close(websocket.StatusInternalError, "error sending ping")
				return
			}
		}
	}
}

func (h *Handler) buildSystemStatus() SystemStatus {
	s := h.tub.Snapshot()

	alerts := make([]string, 0)
	if s.SensorFailSafe {
		alerts = append(alerts, "Temperature probe is not reporting, heater is disabled")
	}

	if s.GoalTemperatureF > s.MaximumTemperatureF {
		alerts = append(alerts, fmt.Sprintf("Goal %.1f°F is above the %.1f°F limit, heater is disabled", s.GoalTemperatureF, s.MaximumTemperatureF))
	}

	return SystemStatus{
		Snapshot:      s,
		AlertMessages: alerts,
	}
}
