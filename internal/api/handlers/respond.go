package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediadeck/internal/apperrors"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an operation error to a status code and a
// user-visible notification body.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusBadGateway

	var validationErr *apperrors.ValidationError
	var authErr *apperrors.AuthenticationError
	var conflictErr *apperrors.ConflictError
	var networkErr *apperrors.NetworkError
	var serverErr *apperrors.ServerError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
	case errors.As(err, &networkErr):
		status = http.StatusBadGateway
	case errors.As(err, &serverErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{
		"message": apperrors.UserMessage(err, fallback),
	})
}
