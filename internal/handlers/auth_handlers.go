package handlers

import (
	"net/http"

	"github.com/Dileepkumar18311/ChatApp/internal/auth"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
)

type AuthHandlers struct {
	authService *auth.Service
}

func NewAuthHandlers(authService *auth.Service) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Signup handles POST /signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "Signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// Login handles POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "Login", err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
