package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KyleBrandon/hottub-server/pkg/utils"
)

var (
	ErrNoAuthHeader       = errors.New("authorization header not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type BasicAuth struct {
	username string
	password string
}

// NewBasicAuth returns a guard for the given credentials. With both empty every request is let
// through, which is how development builds run.
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		username: username,
		password: password,
	}
}

func (a *BasicAuth) Enabled() bool {
	return len(a.username) != 0 || len(a.password) != 0
}

// Verify checks the request's basic credentials.
func (a *BasicAuth) Verify(r *http.Request) error {
	if !a.Enabled() {
		return nil
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return ErrNoAuthHeader
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userMatch || !passMatch {
		return ErrInvalidCredentials
	}

	return nil
}

// Require wraps a handler so it only runs for authenticated requests.
func (a *BasicAuth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.Verify(r); err != nil {
			slog.Warn("rejected unauthenticated request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			w.Header().Set("WWW-Authenticate", `Basic realm="hottub"`)
			utils.RespondWithError(w, http.StatusUnauthorized, "authentication required", err)
			return
		}

		next(w, r)
	}
}
