package health

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

func NewHandler(level *slog.LevelVar, auth Authenticator) *Handler {
	return &Handler{
		level: level,
		auth:  auth,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/health", h.handlerHealthGet)
	mux.HandleFunc("PUT /v1/health/log-level", h.auth.Require(h.handlerLogLevelSet))
}

func (h *Handler) handlerHealthGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug("enter handlerHealthGet")

	response := HealthResponse{
		Status:   "ok",
		LogLevel: h.level.Level().String(),
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

// handlerLogLevelSet changes the level of the running logger.
func (h *Handler) handlerLogLevelSet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerLogLevelSet")
	defer slog.Debug("<<handlerLogLevelSet")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body for log level", err)
		return
	}

	defer r.Body.Close()

	var req LogLevelRequest
	if err := json.Unmarshal(body, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body for log level", err)
		return
	}

	level, err := utils.ParseLogLevel(req.Level)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid log level", err)
		return
	}

	h.level.Set(level)
	slog.Info("log level changed", "level", level)

	utils.RespondWithNoContent(w, http.StatusNoContent)
}
