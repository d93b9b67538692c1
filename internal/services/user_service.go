package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dileepkumar18311/ChatApp/internal/auth"
	"github.com/Dileepkumar18311/ChatApp/internal/database"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
)

var (
	ErrWrongPassword = errors.New("old password incorrect")
	ErrProfileTaken  = errors.New("username or email already in use")
)

type UserService struct {
	db database.UserRepository
}

func NewUserService(db database.UserRepository) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.db.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Username != "" && (len(req.Username) < 3 || len(req.Username) > 32) {
		return nil, models.Invalid("username must be 3-32 characters long")
	}
	if req.Email != "" && (len(req.Email) < 5 || len(req.Email) > 100) {
		return nil, models.Invalid("email must be 5-100 characters long")
	}
	if len(req.DisplayName) > 100 {
		return nil, models.Invalid("display name must be at most 100 characters long")
	}
	if req.Empty() {
		return s.db.GetUserByID(ctx, userID)
	}

	user, err := s.db.UpdateProfile(ctx, userID, req)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrProfileTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 || len(req.NewPassword) > 100 {
		return models.Invalid("password must be 6-100 characters long")
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.db.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, userID int, search string) ([]*models.Identity, error) {
	return s.db.ListUsers(ctx, userID, strings.TrimSpace(search))
}
