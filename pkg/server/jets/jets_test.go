package jets

import (
	"errors"
	"net/http"
	"testing"

	"github.com/KyleBrandon/hottub-server/internal/auth"
	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

type mockJets struct {
	on  bool
	err error
}

func (m *mockJets) JetsActive() bool {
	return m.on
}

func (m *mockJets) ToggleJets() (bool, error) {
	if m.err != nil {
		return m.on, m.err
	}
	m.on = !m.on
	return m.on, nil
}

func TestJetsGet(t *testing.T) {
	jets := mockJets{}
	handler := NewHandler(&jets, auth.NewBasicAuth("", ""))

	rr := utils.TestRequest(t, http.MethodGet, "/jets", nil, handler.handlerJetsGet)

	utils.TestExpectedStatus(t, rr, http.StatusOK)
	utils.TestExpectedMessage(t, rr, `{"result":false}`)
}

func TestJetsToggle(t *testing.T) {
	jets := mockJets{}
	handler := NewHandler(&jets, auth.NewBasicAuth("", ""))

	t.Run("should turn the jets on", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, handler.handlerJetsToggle)

		utils.TestExpectedStatus(t, rr, http.StatusOK)
		utils.TestExpectedMessage(t, rr, `{"result":true}`)
	})

	t.Run("should turn the jets off", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, handler.handlerJetsToggle)

		utils.TestExpectedMessage(t, rr, `{"result":false}`)
	})

	t.Run("should fail when the relay fails", func(t *testing.T) {
		jets.err = errors.New("relay write failed")

		rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, handler.handlerJetsToggle)

		utils.TestExpectedStatus(t, rr, http.StatusInternalServerError)
	})
}

func TestJetsToggleRequiresAuth(t *testing.T) {
	jets := mockJets{}
	handler := NewHandler(&jets, auth.NewBasicAuth("tub", "secret"))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, mux.ServeHTTP)
	utils.TestExpectedStatus(t, rr, http.StatusUnauthorized)

	if jets.on {
		t.Errorf("unauthenticated request toggled the jets")
	}
}
