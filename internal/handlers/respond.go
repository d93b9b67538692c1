package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dileepkumar18311/ChatApp/internal/auth"
	"github.com/Dileepkumar18311/ChatApp/internal/database"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/internal/services"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service and repository errors to a status code.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, auth.ErrUserExists), errors.Is(err, services.ErrProfileTaken):
		writeError(w, http.StatusConflict, "Username or email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "Old password incorrect")
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		logger.Error("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
