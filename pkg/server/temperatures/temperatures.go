package temperatures

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/KyleBrandon/hottub-server/internal/hottub"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

// goal bodies are a bare number, anything larger is not a goal
const maxGoalBodyBytes = 64

func NewHandler(tub TemperatureController, auth Authenticator) *Handler {
	return &Handler{
		tub,
		auth,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /temp", h.handlerTempGet)
	mux.HandleFunc("POST /temp", h.auth.Require(h.handlerTempSet))
	mux.HandleFunc("GET /goal-temp", h.handlerGoalTempGet)
}

func (h *Handler) handlerTempGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handlerTempGet")

	utils.RespondWithResult(w, http.StatusOK, fmt.Sprintf("%.4g", h.tub.CurrentTemp()))
}

// handlerTempSet sets the goal temperature from a raw numeric body.
func (h *Handler) handlerTempSet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerTempSet")
	defer slog.Debug("<<handlerTempSet")

	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxGoalBodyBytes+1))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body for goal temperature", err)
		return
	}

	if len(body) > maxGoalBodyBytes {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid body for goal temperature", hottub.ErrInvalidInput)
		return
	}

	goal, err := h.tub.SetGoalTemp(string(body))
	if err != nil {
		if errors.Is(err, hottub.ErrInvalidInput) {
			utils.RespondWithError(w, http.StatusBadRequest, "Goal temperature must be a number", err)
			return
		}

		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to set the goal temperature", err)
		return
	}

	utils.RespondWithResult(w, http.StatusOK, goal)
}

func (h *Handler) handlerGoalTempGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handlerGoalTempGet")

	utils.RespondWithResult(w, http.StatusOK, h.tub.GoalTemp())
}
