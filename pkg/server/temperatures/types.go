package temperatures

import "net/http"

type (
	// TemperatureController is the part of the hot tub the temperature endpoints drive.
	TemperatureController interface {
		CurrentTemp() float64
		GoalTemp() float64
		SetGoalTemp(value string) (float64, error)
	}

	Authenticator interface {
		Require(next http.HandlerFunc) http.HandlerFunc
	}

	Handler struct {
		tub  TemperatureController
		auth Authenticator
	}
)
