package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/KyleBrandon/hottub-server/internal/database"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
	"github.com/google/uuid"
)

type mockHistoryStore struct {
	limit  int32
	err    error
	temps  []database.Temperature
	events []database.HeaterEvent
}

func (m *mockHistoryStore) FindRecentTemperatures(ctx context.Context, limit int32) ([]database.Temperature, error) {
	m.limit = limit
	return m.temps, m.err
}

func (m *mockHistoryStore) FindRecentHeaterEvents(ctx context.Context, limit int32) ([]database.HeaterEvent, error) {
	m.limit = limit
	return m.events, m.err
}

func TestTemperaturesGet(t *testing.T) {
	store := mockHistoryStore{
		temps: []database.Temperature{
			{ID: uuid.New(), CreatedAt: time.Now(), WaterTemp: 98.6, GoalTemp: 100},
			{ID: uuid.New(), CreatedAt: time.Now(), WaterTemp: 105, GoalTemp: 100, FailSafe: true},
		},
	}
	handler := NewHandler(&store)

	t.Run("should return the recent temperatures", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodGet, "/v1/temperatures", nil, handler.handlerTemperaturesGet)
		utils.TestExpectedStatus(t, rr, http.StatusOK)

		var entries []TemperatureEntry
		if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
			t.Fatal(err)
		}

		if len(entries) != 2 || !entries[1].FailSafe {
			t.Errorf("unexpected entries %+v", entries)
		}

		if store.limit != DEFAULT_HISTORY_LIMIT {
			t.Errorf("expected default limit %d, got %d", DEFAULT_HISTORY_LIMIT, store.limit)
		}
	})

	t.Run("should honor the limit parameter", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodGet, "/v1/temperatures?limit=5", nil, handler.handlerTemperaturesGet)
		utils.TestExpectedStatus(t, rr, http.StatusOK)

		if store.limit != 5 {
			t.Errorf("expected limit 5, got %d", store.limit)
		}
	})

	t.Run("should reject an invalid limit", func(t *testing.T) {
		for _, limit := range []string{"abc", "0", "5000"} {
			rr := utils.TestRequest(t, http.MethodGet, "/v1/temperatures?limit="+limit, nil, handler.handlerTemperaturesGet)
			utils.TestExpectedStatus(t, rr, http.StatusBadRequest)
		}
	})

	t.Run("should fail when the store fails", func(t *testing.T) {
		store.err = errors.New("connection refused")
		defer func() { store.err = nil }()

		rr := utils.TestRequest(t, http.MethodGet, "/v1/temperatures", nil, handler.handlerTemperaturesGet)
		utils.TestExpectedStatus(t, rr, http.StatusInternalServerError)
	})
}

func TestHeaterEventsGet(t *testing.T) {
	store := mockHistoryStore{
		events: []database.HeaterEvent{
			{ID: uuid.New(), CreatedAt: time.Now(), HeaterOn: true, WaterTemp: 85, GoalTemp: 90},
		},
	}
	handler := NewHandler(&store)

	rr := utils.TestRequest(t, http.MethodGet, "/v1/heater/events", nil, handler.handlerHeaterEventsGet)
	utils.TestExpectedStatus(t, rr, http.StatusOK)
	utils.TestExpectedMessage(t, rr, `"heater_on":true`)
}

func TestHistoryDisabled(t *testing.T) {
	handler := NewHandler(nil)

	rr := utils.TestRequest(t, http.MethodGet, "/v1/temperatures", nil, handler.handlerTemperaturesGet)
	utils.TestExpectedStatus(t, rr, http.StatusNotFound)

	rr = utils.TestRequest(t, http.MethodGet, "/v1/heater/events", nil, handler.handlerHeaterEventsGet)
	utils.TestExpectedStatus(t, rr, http.StatusNotFound)
}
