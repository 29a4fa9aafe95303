package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/emre/solidarity/internal/app/models"
	"github.com/emre/solidarity/internal/app/models/dto"
	"github.com/emre/solidarity/internal/app/policy"
	"github.com/emre/solidarity/internal/pkg/apperrors"
	"github.com/emre/solidarity/internal/pkg/filestorage"
)

// UserService handles user profile operations
type UserService struct {
	userStore UserStore
	storage   filestorage.FileStorage
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore UserStore, storage filestorage.FileStorage, logger zerolog.Logger) *UserService {
	return &UserService{
		userStore: userStore,
		storage:   storage,
		logger:    logger,
	}
}

// GetByID fetches a profile the actor is allowed to see
func (s *UserService) GetByID(ctx context.Context, actor policy.Actor, id int64) (*models.User, error) {
	if !policy.CanViewUser(actor, id) {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.userStore.GetByID(ctx, id)
}

// GetAll lists every user. Admin only.
func (s *UserService) GetAll(ctx context.Context, actor policy.Actor) ([]*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.userStore.GetAll(ctx)
}

// UpdateProfile applies the provided fields to a user's profile
func (s *UserService) UpdateProfile(ctx context.Context, actor policy.Actor, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	if !policy.CanEditUser(actor, id) {
		return nil, apperrors.ErrPermissionDenied
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Street != nil {
		user.Address.Street = req.Street
	}
	if req.City != nil {
		user.Address.City = req.City
	}
	if req.PostalCode != nil {
		user.Address.PostalCode = req.PostalCode
	}
	if req.Country != nil {
		user.Address.Country = req.Country
	}

	if err := s.userStore.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", id).Msg("Profile updated")
	return user, nil
}

// UploadAvatar validates and stores a profile picture, replacing any
// previous one
func (s *UserService) UploadAvatar(ctx context.Context, actor policy.Actor, id int64, fileHeader *multipart.FileHeader) (string, error) {
	if !policy.CanEditUser(actor, id) {
		return "", apperrors.ErrPermissionDenied
	}

	if err := filestorage.ValidateImage(fileHeader); err != nil {
		return "", err
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	avatarURL, err := s.storage.SaveFile(fileHeader, filestorage.CategoryAvatars)
	if err != nil {
		return "", err
	}

	if err := s.userStore.UpdateAvatar(ctx, id, avatarURL); err != nil {
		return "", err
	}

	if user.Avatar != nil {
		if err := s.storage.DeleteFile(*user.Avatar); err != nil {
			s.logger.Warn().Err(err).Str("avatar", *user.Avatar).Msg("Failed to delete old avatar")
		}
	}

	s.logger.Info().Int64("userID", id).Str("avatar", avatarURL).Msg("Avatar uploaded")
	return avatarURL, nil
}

// Delete removes a user account. Admin only.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if err := s.userStore.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Msg("User deleted")
	return nil
}
