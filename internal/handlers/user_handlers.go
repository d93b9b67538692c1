package handlers

import (
	"net/http"

	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/internal/services"
)

type UserHandlers struct {
	userService *services.UserService
}

func NewUserHandlers(userService *services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

type userResponse struct {
	User *models.User `json:"user"`
}

func (h *UserHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "Get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: profile})
}

func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, "Update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: profile})
}

func (h *UserHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, &req); err != nil {
		writeServiceError(w, "Change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// ListUsers handles GET /users?search=.
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	users, err := h.userService.ListUsers(r.Context(), user.ID, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, "List users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
