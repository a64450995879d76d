package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	resultData, err := json.Marshal(payload)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Error marshalling result", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(resultData)
}

func RespondWithError(w http.ResponseWriter, code int, message string, err error) {
	slog.Error(message, "http_status", code, "error", err)

	response := struct {
		Error string `json:"error"`
	}{
		Error: message,
	}

	RespondWithJSON(w, code, response)
}

// RespondWithResult wraps payload as {"result": payload}.
func RespondWithResult(w http.ResponseWriter, code int, payload interface{}) {
	response := struct {
		Result interface{} `json:"result"`
	}{
		Result: payload,
	}

	RespondWithJSON(w, code, response)
}

func RespondWithNoContent(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
}
