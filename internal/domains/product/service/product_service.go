package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/category"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/infrastructure/storage"
)

// ImageUpload is a decoded multipart image ready for the blob store.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// Service covers the product catalog. Every mutating call takes the
// acting seller's id and refuses to touch listings owned by anyone else.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, req *product.CreateProductRequest, images []ImageUpload) (*product.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	List(ctx context.Context, q *product.ListQuery) ([]product.Product, int64, error)
	Update(ctx context.Context, sellerID, id uuid.UUID, req *product.UpdateProductRequest, images []ImageUpload) (*product.Product, error)
	Delete(ctx context.Context, sellerID, id uuid.UUID) error
}

type productService struct {
	products   product.Repository
	categories category.Repository
	blobs      storage.BlobStore
}

func NewProductService(products product.Repository, categories category.Repository, blobs storage.BlobStore) Service {
	return &productService{products: products, categories: categories, blobs: blobs}
}

func (s *productService) Create(ctx context.Context, sellerID uuid.UUID, req *product.CreateProductRequest, images []ImageUpload) (*product.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, product.ErrNoImages
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, category.ErrCategoryNotFound
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}

	id := uuid.New()
	stored, err := s.uploadImages(ctx, id, images)
	if err != nil {
		return nil, err
	}

	p := &product.Product{
		ID:          id,
		SellerID:    sellerID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Images:      stored,
	}
	if err := s.products.Create(ctx, p); err != nil {
		// Insert failed after the blobs landed; sweep them back out.
		_ = s.blobs.DestroyPrefix(ctx, imagePrefix(id))
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, q *product.ListQuery) ([]product.Product, int64, error) {
	q.Normalize()
	return s.products.List(ctx, q)
}

func (s *productService) Update(ctx context.Context, sellerID, id uuid.UUID, req *product.UpdateProductRequest, images []ImageUpload) (*product.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, product.ErrNotOwner
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		p.Price = price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, category.ErrCategoryNotFound
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	// New images replace the whole set, blobs included.
	if len(images) > 0 {
		if err := s.blobs.DestroyPrefix(ctx, imagePrefix(id)); err != nil {
			return nil, fmt.Errorf("remove old images: %w", err)
		}
		stored, err := s.uploadImages(ctx, id, images)
		if err != nil {
			return nil, err
		}
		if err := s.products.ReplaceImages(ctx, id, stored); err != nil {
			return nil, err
		}
		p.Images = stored
	}

	return p, nil
}

func (s *productService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.SellerID != sellerID {
		return product.ErrNotOwner
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best-effort; the listing is already gone.
	_ = s.blobs.DestroyPrefix(ctx, imagePrefix(id))
	return nil
}

func (s *productService) uploadImages(ctx context.Context, productID uuid.UUID, images []ImageUpload) ([]product.Image, error) {
	stored := make([]product.Image, 0, len(images))
	for i, img := range images {
		imageID := uuid.New()
		key := fmt.Sprintf("%s/%d-%s", imagePrefix(productID), i, imageID)
		url, err := s.blobs.Upload(ctx, key, img.Data, img.ContentType)
		if err != nil {
			_ = s.blobs.DestroyPrefix(ctx, imagePrefix(productID))
			return nil, fmt.Errorf("upload image: %w", err)
		}
		stored = append(stored, product.Image{ID: imageID, ProductID: productID, URL: url})
	}
	return stored, nil
}

func imagePrefix(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s", productID)
}
