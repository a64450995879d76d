package auth

import (
	"net/http"
	"testing"

	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithNoContent(w, http.StatusNoContent)
}

func basicHeader(t *testing.T, username, password string) map[string][]string {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth(username, password)

	return map[string][]string{
		"Authorization": {req.Header.Get("Authorization")},
	}
}

func TestRequire(t *testing.T) {
	a := NewBasicAuth("tub", "secret")
	handler := a.Require(okHandler)

	t.Run("should reject a request with no credentials", func(t *testing.T) {
		rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, handler)
		utils.TestExpectedStatus(t, rr, http.StatusUnauthorized)

		if rr.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("expected a WWW-Authenticate challenge")
		}
	})

	t.Run("should reject the wrong password", func(t *testing.T) {
		rr := utils.TestRequestWithHeaders(t, http.MethodPost, "/jets", basicHeader(t, "tub", "guess"), nil, handler)
		utils.TestExpectedStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("should reject an api key header", func(t *testing.T) {
		headers := map[string][]string{
			"Authorization": {"ApiKey 12345"},
		}
		rr := utils.TestRequestWithHeaders(t, http.MethodPost, "/jets", headers, nil, handler)
		utils.TestExpectedStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("should accept valid credentials", func(t *testing.T) {
		rr := utils.TestRequestWithHeaders(t, http.MethodPost, "/jets", basicHeader(t, "tub", "secret"), nil, handler)
		utils.TestExpectedStatus(t, rr, http.StatusNoContent)
	})
}

func TestRequireDisabled(t *testing.T) {
	a := NewBasicAuth("", "")
	if a.Enabled() {
		t.Fatal("expected auth to be disabled without credentials")
	}

	rr := utils.TestRequest(t, http.MethodPost, "/jets", nil, a.Require(okHandler))
	utils.TestExpectedStatus(t, rr, http.StatusNoContent)
}
