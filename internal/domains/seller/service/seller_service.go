package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/infrastructure/storage"
)

// Service covers seller onboarding and identity lookups.
type Service interface {
	// BecomeSeller creates the store profile for a user. logo may be nil.
	BecomeSeller(ctx context.Context, userID uuid.UUID, req seller.BecomeSellerRequest, logo []byte, logoContentType string) (*seller.Seller, error)

	// GetByUserID resolves a user's seller profile.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*seller.Seller, error)
}

type sellerService struct {
	repo  seller.Repository
	blobs storage.BlobStore
}

func NewSellerService(repo seller.Repository, blobs storage.BlobStore) Service {
	return &sellerService{repo: repo, blobs: blobs}
}

func (s *sellerService) BecomeSeller(ctx context.Context, userID uuid.UUID, req seller.BecomeSellerRequest, logo []byte, logoContentType string) (*seller.Seller, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Reject before uploading the logo so a duplicate request leaves no
	// orphaned blob behind.
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, seller.ErrAlreadySeller
	} else if err != seller.ErrSellerNotFound {
		return nil, fmt.Errorf("check existing seller: %w", err)
	}

	id := uuid.New()

	var logoURL *string
	if len(logo) > 0 {
		url, err := s.blobs.Upload(ctx, fmt.Sprintf("sellers/%s/logo", id), logo, logoContentType)
		if err != nil {
			return nil, fmt.Errorf("upload logo: %w", err)
		}
		logoURL = &url
	}

	now := time.Now()
	newSeller := &seller.Seller{
		ID:              id,
		UserID:          userID,
		StoreName:       req.StoreName,
		Description:     optional(req.Description),
		LogoURL:         logoURL,
		BusinessAddress: optional(req.BusinessAddress),
		WebsiteURL:      optional(req.WebsiteURL),
		InstagramURL:    optional(req.InstagramURL),
		FacebookURL:     optional(req.FacebookURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, newSeller); err != nil {
		// Lost the race after the pre-check; clean the uploaded logo up.
		if logoURL != nil {
			_ = s.blobs.Destroy(ctx, *logoURL)
		}
		return nil, err
	}

	return newSeller, nil
}

func (s *sellerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*seller.Seller, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
