package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/seller"
)

type memSellerRepo struct {
	mu      sync.Mutex
	byUser  map[uuid.UUID]*seller.Seller
	failing bool
}

func newMemSellerRepo() *memSellerRepo {
	return &memSellerRepo{byUser: make(map[uuid.UUID]*seller.Seller)}
}

func (r *memSellerRepo) Create(_ context.Context, s *seller.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return seller.ErrAlreadySeller
	}
	if _, ok := r.byUser[s.UserID]; ok {
		return seller.ErrAlreadySeller
	}
	clone := *s
	r.byUser[s.UserID] = &clone
	return nil
}

func (r *memSellerRepo) FindByID(_ context.Context, id uuid.UUID) (*seller.Seller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byUser {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, seller.ErrSellerNotFound
}

func (r *memSellerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*seller.Seller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	if !ok {
		return nil, seller.ErrSellerNotFound
	}
	clone := *s
	return &clone, nil
}

type trackingBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (s *trackingBlobs) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "https://blobs.test/" + key, nil
}

func (s *trackingBlobs) Destroy(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, strings.TrimPrefix(url, "https://blobs.test/"))
	return nil
}

func (s *trackingBlobs) DestroyPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			delete(s.blobs, key)
		}
	}
	return nil
}

func TestBecomeSeller(t *testing.T) {
	repo := newMemSellerRepo()
	blobs := &trackingBlobs{blobs: make(map[string][]byte)}
	svc := NewSellerService(repo, blobs)
	ctx := context.Background()
	userID := uuid.New()

	req := seller.BecomeSellerRequest{
		StoreName:   "Scarves & Co",
		Description: "Hand-knitted accessories",
		WebsiteURL:  "https://scarves.example.com",
	}

	s, err := svc.BecomeSeller(ctx, userID, req, []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, "Scarves & Co", s.StoreName)
	require.NotNil(t, s.LogoURL)
	assert.Contains(t, *s.LogoURL, "sellers/")
	require.NotNil(t, s.Description)
	assert.Equal(t, "Hand-knitted accessories", *s.Description)

	// Second attempt for the same user conflicts before uploading.
	_, err = svc.BecomeSeller(ctx, userID, req, []byte("png-bytes"), "image/png")
	assert.ErrorIs(t, err, seller.ErrAlreadySeller)
	assert.Len(t, blobs.blobs, 1)
}

func TestBecomeSellerWithoutLogo(t *testing.T) {
	svc := NewSellerService(newMemSellerRepo(), &trackingBlobs{blobs: make(map[string][]byte)})

	s, err := svc.BecomeSeller(context.Background(), uuid.New(), seller.BecomeSellerRequest{
		StoreName: "Plain Store",
	}, nil, "")
	require.NoError(t, err)
	assert.Nil(t, s.LogoURL)
	assert.Nil(t, s.Description)
}

func TestBecomeSellerValidation(t *testing.T) {
	svc := NewSellerService(newMemSellerRepo(), &trackingBlobs{blobs: make(map[string][]byte)})

	_, err := svc.BecomeSeller(context.Background(), uuid.New(), seller.BecomeSellerRequest{
		StoreName: "ab", // below minimum length
	}, nil, "")
	assert.Error(t, err)
}

func TestBecomeSellerLostRaceCleansLogo(t *testing.T) {
	repo := newMemSellerRepo()
	blobs := &trackingBlobs{blobs: make(map[string][]byte)}
	svc := NewSellerService(repo, blobs)
	ctx := context.Background()
	userID := uuid.New()

	// The pre-check passes but the insert conflicts, as if another request
	// won the race in between.
	repo.failing = true
	_, err := svc.BecomeSeller(ctx, userID, seller.BecomeSellerRequest{StoreName: "Race Store"},
		[]byte("png-bytes"), "image/png")
	assert.ErrorIs(t, err, seller.ErrAlreadySeller)
	assert.Empty(t, blobs.blobs)
}
