package history

import (
	"context"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/google/uuid"
)

const (
	DEFAULT_HISTORY_LIMIT = 100
	MAX_HISTORY_LIMIT     = 1000
)

type (
	HistoryStore interface {
		FindRecentTemperatures(ctx context.Context, limit int32) ([]database.Temperature, error)
		FindRecentHeaterEvents(ctx context.Context, limit int32) ([]database.HeaterEvent, error)
	}

	TemperatureEntry struct {
		ID        uuid.UUID `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		WaterTemp float64   `json:"water_temp"`
		GoalTemp  float64   `json:"goal_temp"`
		FailSafe  bool      `json:"fail_safe"`
	}

	HeaterEvent struct {
		ID        uuid.UUID `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		HeaterOn  bool      `json:"heater_on"`
		WaterTemp float64   `json:"water_temp"`
		GoalTemp  float64   `json:"goal_temp"`
	}

	Handler struct {
		store HistoryStore
	}
)
