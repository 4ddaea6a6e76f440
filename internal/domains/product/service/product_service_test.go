package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/category"
	"marketplace-backend/internal/domains/product"
)

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*product.Product)}
}

func (r *memProductRepo) Create(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) List(_ context.Context, _ *product.ListQuery) ([]product.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []product.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memProductRepo) ReplaceImages(_ context.Context, id uuid.UUID, images []product.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	p.Images = images
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type memCategoryRepo struct {
	categories map[uuid.UUID]*category.Category
}

func (r *memCategoryRepo) Create(_ context.Context, _ *category.Category) error { return nil }

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return c, nil
}

func (r *memCategoryRepo) FindByName(_ context.Context, _ string) (*category.Category, error) {
	return nil, category.ErrCategoryNotFound
}

func (r *memCategoryRepo) List(_ context.Context) ([]category.Category, error) { return nil, nil }
func (r *memCategoryRepo) Update(_ context.Context, _ *category.Category) error {
	return nil
}
func (r *memCategoryRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// memBlobStore records uploads and destroys by key.
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (s *memBlobStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "https://blobs.test/" + key, nil
}

func (s *memBlobStore) Destroy(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, strings.TrimPrefix(url, "https://blobs.test/"))
	return nil
}

func (s *memBlobStore) DestroyPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			delete(s.blobs, key)
		}
	}
	return nil
}

func (s *memBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func newProductFixture() (Service, *memProductRepo, *memBlobStore, uuid.UUID) {
	products := newMemProductRepo()
	blobs := newMemBlobStore()
	categoryID := uuid.New()
	categories := &memCategoryRepo{categories: map[uuid.UUID]*category.Category{
		categoryID: {ID: categoryID, Name: "Apparel"},
	}}
	return NewProductService(products, categories, blobs), products, blobs, categoryID
}

func validCreateReq(categoryID uuid.UUID) *product.CreateProductRequest {
	return &product.CreateProductRequest{
		Name:        "Wool Scarf",
		Description: "Hand-knitted scarf made from merino wool.",
		Price:       "19.99",
		Stock:       5,
		CategoryID:  categoryID.String(),
	}
}

func oneImage() []ImageUpload {
	return []ImageUpload{{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}}
}

func TestCreateProduct(t *testing.T) {
	svc, _, blobs, categoryID := newProductFixture()
	sellerID := uuid.New()

	p, err := svc.Create(context.Background(), sellerID, validCreateReq(categoryID), oneImage())
	require.NoError(t, err)

	assert.Equal(t, sellerID, p.SellerID)
	assert.Equal(t, "19.99", p.Price.StringFixed(2))
	require.Len(t, p.Images, 1)
	assert.Contains(t, p.Images[0].URL, fmt.Sprintf("products/%s/", p.ID))
	assert.Equal(t, 1, blobs.count())
}

func TestCreateProductRequiresImage(t *testing.T) {
	svc, _, blobs, categoryID := newProductFixture()

	_, err := svc.Create(context.Background(), uuid.New(), validCreateReq(categoryID), nil)
	assert.ErrorIs(t, err, product.ErrNoImages)
	assert.Zero(t, blobs.count())
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	req := validCreateReq(uuid.New())
	_, err := svc.Create(context.Background(), uuid.New(), req, oneImage())
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestUpdateProductOwnership(t *testing.T) {
	svc, _, _, categoryID := newProductFixture()
	owner := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validCreateReq(categoryID), oneImage())
	require.NoError(t, err)

	newName := "Cashmere Scarf"
	_, err = svc.Update(ctx, uuid.New(), p.ID, &product.UpdateProductRequest{Name: newName}, nil)
	assert.ErrorIs(t, err, product.ErrNotOwner)

	updated, err := svc.Update(ctx, owner, p.ID, &product.UpdateProductRequest{Name: newName}, nil)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	// Untouched fields survive a partial update.
	assert.Equal(t, "19.99", updated.Price.StringFixed(2))
}

func TestUpdateProductReplacesImages(t *testing.T) {
	svc, repo, blobs, categoryID := newProductFixture()
	owner := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validCreateReq(categoryID), oneImage())
	require.NoError(t, err)
	oldURL := p.Images[0].URL

	updated, err := svc.Update(ctx, owner, p.ID, &product.UpdateProductRequest{}, []ImageUpload{
		{Data: []byte("new-1"), ContentType: "image/png"},
		{Data: []byte("new-2"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.NotEqual(t, oldURL, updated.Images[0].URL)
	assert.Equal(t, 2, blobs.count())

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 2)
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, blobs, categoryID := newProductFixture()
	owner := uuid.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner, validCreateReq(categoryID), oneImage())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), p.ID)
	assert.ErrorIs(t, err, product.ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
	assert.Zero(t, blobs.count())
}
