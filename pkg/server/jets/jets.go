package jets

import (
	"log/slog"
	"net/http"

	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

func NewHandler(jets JetsController, auth Authenticator) *Handler {
	return &Handler{
		jets,
		auth,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /jets", h.handlerJetsGet)
	mux.HandleFunc("POST /jets", h.auth.Require(h.handlerJetsToggle))
}

func (h *Handler) handlerJetsGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handlerJetsGet")

	utils.RespondWithResult(w, http.StatusOK, h.jets.JetsActive())
}

func (h *Handler) handlerJetsToggle(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerJetsToggle")
	defer slog.Debug("<<handlerJetsToggle")

	on, err := h.jets.ToggleJets()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to toggle the jets", err)
		return
	}

	utils.RespondWithResult(w, http.StatusOK, on)
}
