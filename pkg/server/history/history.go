package history

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

var errHistoryDisabled = errors.New("no history store is configured")

// NewHandler serves the saved history. store may be nil when no database is configured.
func NewHandler(store HistoryStore) *Handler {
	return &Handler{
		store,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/temperatures", h.handlerTemperaturesGet)
	mux.HandleFunc("GET /v1/heater/events", h.handlerHeaterEventsGet)
}

func (h *Handler) handlerTemperaturesGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerTemperaturesGet")
	defer slog.Debug("<<handlerTemperaturesGet")

	if h.store == nil {
		utils.RespondWithError(w, http.StatusNotFound, "temperature history is not enabled", errHistoryDisabled)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter", err)
		return
	}

	rows, err := h.store.FindRecentTemperatures(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not read the temperature history", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, databaseToTemperatures(rows))
}

func (h *Handler) handlerHeaterEventsGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerHeaterEventsGet")
	defer slog.Debug("<<handlerHeaterEventsGet")

	if h.store == nil {
		utils.RespondWithError(w, http.StatusNotFound, "heater history is not enabled", errHistoryDisabled)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter", err)
		return
	}

	rows, err := h.store.FindRecentHeaterEvents(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not read the heater history", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, databaseToHeaterEvents(rows))
}

func parseLimit(r *http.Request) (int32, error) {
	limitStr := r.URL.Query().Get("limit")
	if len(limitStr) == 0 {
		return DEFAULT_HISTORY_LIMIT, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, err
	}

	if limit <= 0 || limit > MAX_HISTORY_LIMIT {
		return 0, fmt.Errorf("limit must be between 1 and %d", MAX_HISTORY_LIMIT)
	}

	return int32(limit), nil
}

func databaseToTemperatures(rows []database.Temperature) []TemperatureEntry {
	entries := make([]TemperatureEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, TemperatureEntry{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			WaterTemp: row.WaterTemp,
			GoalTemp:  row.GoalTemp,
			FailSafe:  row.FailSafe,
		})
	}
	return entries
}

func databaseToHeaterEvents(rows []database.HeaterEvent) []HeaterEvent {
	events := make([]HeaterEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, HeaterEvent{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			HeaterOn:  row.HeaterOn,
			WaterTemp: row.WaterTemp,
			GoalTemp:  row.GoalTemp,
		})
	}
	return events
}
