package service

import (
	"context"

	"github.com/google/uuid"

	"marketplace-backend/internal/domains/category"
)

// Service exposes category use cases.
type Service interface {
	Create(ctx context.Context, req *category.UpsertCategoryRequest) (*category.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *category.UpsertCategoryRequest) (*category.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories category.Repository
}

func NewService(categories category.Repository) Service {
	return &categoryService{categories: categories}
}

func (s *categoryService) Create(ctx context.Context, req *category.UpsertCategoryRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &category.Category{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context) ([]category.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *category.UpsertCategoryRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}
