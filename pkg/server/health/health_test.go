package health

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/KyleBrandon/hottub-server/internal/auth"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

func TestHealthGet(t *testing.T) {
	level := new(slog.LevelVar)
	handler := NewHandler(level, auth.NewBasicAuth("", ""))

	rr := utils.TestRequest(t, http.MethodGet, "/v1/health", nil, handler.handlerHealthGet)

	utils.TestExpectedStatus(t, rr, http.StatusOK)
	utils.TestExpectedMessage(t, rr, `"status":"ok"`)
	utils.TestExpectedMessage(t, rr, `"log_level":"INFO"`)
}

func TestLogLevelSet(t *testing.T) {
	level := new(slog.LevelVar)
	handler := NewHandler(level, auth.NewBasicAuth("", ""))

	t.Run("should change the log level", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPut, "/v1/health/log-level", strings.NewReader(`{"level":"debug"}`), handler.handlerLogLevelSet)

		utils.TestExpectedStatus(t, rr, http.StatusNoContent)
		if level.Level() != slog.LevelDebug {
			t.Errorf("expected level DEBUG, got %v", level.Level())
		}
	})

	t.Run("should reject an unknown level", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPut, "/v1/health/log-level", strings.NewReader(`{"level":"loud"}`), handler.handlerLogLevelSet)

		utils.TestExpectedStatus(t, rr, http.StatusBadRequest)
		if level.Level() != slog.LevelDebug {
			t.Errorf("expected level to stay DEBUG, got %v", level.Level())
		}
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPut, "/v1/health/log-level", strings.NewReader(`level=debug`), handler.handlerLogLevelSet)

		utils.TestExpectedStatus(t, rr, http.StatusBadRequest)
	})
}
