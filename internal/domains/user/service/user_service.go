package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/storage"
)

// Service covers the authenticated user's own profile.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*user.DTO, error)

	// UpdateProfile applies the non-empty fields of req; avatar may be nil.
	UpdateProfile(ctx context.Context, id uuid.UUID, req user.UpdateProfileRequest, avatar []byte, avatarContentType string) (*user.DTO, error)

	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users user.Repository
	blobs storage.BlobStore
}

func NewUserService(users user.Repository, blobs storage.BlobStore) Service {
	return &userService{users: users, blobs: blobs}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*user.DTO, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req user.UpdateProfileRequest, avatar []byte, avatarContentType string) (*user.DTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Bio != "" {
		u.Bio = &req.Bio
	}
	if req.Address != "" {
		u.Address = &req.Address
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	if len(avatar) > 0 {
		// Fixed key per user; re-upload overwrites the previous avatar.
		url, err := s.blobs.Upload(ctx, fmt.Sprintf("users/%s/avatar", id), avatar, avatarContentType)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		u.AvatarURL = &url
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.blobs.DestroyPrefix(ctx, fmt.Sprintf("users/%s", id))
	return nil
}
