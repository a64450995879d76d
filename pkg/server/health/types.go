package health

import (
	"log/slog"
	"net/http"
)

type (
	Authenticator interface {
		Require(next http.HandlerFunc) http.HandlerFunc
	}

	LogLevelRequest struct {
		Level string `json:"level"`
	}

	HealthResponse struct {
		Status   string `json:"status"`
		LogLevel string `json:"log_level"`
	}

	Handler struct {
		level *slog.LevelVar
		auth  Authenticator
	}
)
