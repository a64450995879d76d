package jets

import "net/http"

type (
	JetsController interface {
		JetsActive() bool
		ToggleJets() (bool, error)
	}

	Authenticator interface {
		Require(next http.HandlerFunc) http.HandlerFunc
	}

	Handler struct {
		jets JetsController
		auth Authenticator
	}
)
