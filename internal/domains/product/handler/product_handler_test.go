package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/domains/product/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubListService records the query the handler builds for List.
type stubListService struct {
	lastQuery *product.ListQuery
}

func (s *stubListService) Create(_ context.Context, _ uuid.UUID, _ *product.CreateProductRequest, _ []service.ImageUpload) (*product.Product, error) {
	return nil, nil
}

func (s *stubListService) GetByID(_ context.Context, _ uuid.UUID) (*product.Product, error) {
	return nil, product.ErrProductNotFound
}

func (s *stubListService) List(_ context.Context, q *product.ListQuery) ([]product.Product, int64, error) {
	s.lastQuery = q
	return []product.Product{}, 0, nil
}

func (s *stubListService) Update(_ context.Context, _, _ uuid.UUID, _ *product.UpdateProductRequest, _ []service.ImageUpload) (*product.Product, error) {
	return nil, nil
}

func (s *stubListService) Delete(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func listRequest(t *testing.T, svc service.Service, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewProductHandler(svc)
	r := gin.New()
	r.GET("/products", h.List)

	req := httptest.NewRequest(http.MethodGet, "/products?"+rawQuery, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListRejectsMalformedUUIDFilters(t *testing.T) {
	t.Run("bad category", func(t *testing.T) {
		svc := &stubListService{}
		w := listRequest(t, svc, "category=not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid category ID")
		assert.Nil(t, svc.lastQuery)
	})

	t.Run("bad seller", func(t *testing.T) {
		svc := &stubListService{}
		w := listRequest(t, svc, "seller=42")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid seller ID")
		assert.Nil(t, svc.lastQuery)
	})
}

func TestListPassesValidFiltersThrough(t *testing.T) {
	svc := &stubListService{}
	categoryID := uuid.NewString()
	sellerID := uuid.NewString()

	w := listRequest(t, svc, "category="+categoryID+"&seller="+sellerID+"&search=lamp")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastQuery)
	assert.Equal(t, categoryID, svc.lastQuery.CategoryID)
	assert.Equal(t, sellerID, svc.lastQuery.SellerID)
	assert.Equal(t, "lamp", svc.lastQuery.Search)
}
