package models

import "time"

type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PasswordHash  string    `json:"-"`
	Avatar        *string   `json:"avatar"`
	Bio           *string   `json:"bio"`
	Status        *string   `json:"status"`
	ContactNumber *string   `json:"contactNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Identity is the public snapshot of a user attached to sockets and messages.
type Identity struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Avatar      *string `json:"avatar,omitempty"`
}

func (u *User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest carries a partial update; empty fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName   string `json:"displayName"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	ContactNumber string `json:"contactNumber"`
	Avatar        string `json:"avatar"`
	Bio           string `json:"bio"`
}

func (r *UpdateProfileRequest) Empty() bool {
	return *r == UpdateProfileRequest{}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
