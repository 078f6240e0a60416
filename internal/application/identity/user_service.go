package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/domain/identity"
	"github.com/contactbook/backend/internal/infrastructure/avatar"
)

// UserService handles account profile operations
type UserService struct {
	userRepo identity.UserRepository
	uploader avatar.Uploader
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, uploader avatar.Uploader, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
	}
}

// Me returns the authenticated user's profile
func (s *UserService) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// UpdateAvatar uploads a new avatar image and stores its URL on the profile
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, data []byte) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, fmt.Sprintf("user_%d", userID), data)
	if err != nil {
		return nil, err
	}

	if err := user.SetAvatar(url); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Avatar updated", zap.Uint("user_id", userID))

	response := ToUserResponse(user)
	return &response, nil
}
