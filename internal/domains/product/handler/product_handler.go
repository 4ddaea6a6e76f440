package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/category"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/domains/product/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/internal/shared/utils"
)

const maxImageBytes = 10 << 20

type ProductHandler struct {
	service service.Service
}

func NewProductHandler(service service.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID, ok := middleware.SellerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req product.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	images, ok := readImages(c)
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), sellerID, &req, images)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Product created successfully", created)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Product retrieved successfully", p)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	categoryID, ok := uuidQuery(c, "category", "Invalid category ID")
	if !ok {
		return
	}
	sellerID, ok := uuidQuery(c, "seller", "Invalid seller ID")
	if !ok {
		return
	}

	q := product.ListQuery{
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
		CategoryID: categoryID,
		SellerID:   sellerID,
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
	}

	products, total, err := h.service.List(c.Request.Context(), &q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewMeta(q.Page, q.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Products retrieved successfully", products, meta)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	sellerID, ok := middleware.SellerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	images, ok := readImages(c)
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), sellerID, id, &req, images)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Product updated successfully", updated)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	sellerID, ok := middleware.SellerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), sellerID, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Product deleted successfully", nil)
}

func readImages(c *gin.Context) ([]service.ImageUpload, bool) {
	files, types, err := utils.ReadFormFiles(c, "images", maxImageBytes)
	if err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			response.BadRequest(c, "Image exceeds the maximum allowed size")
		} else {
			response.BadRequest(c, "Could not read uploaded images")
		}
		return nil, false
	}

	images := make([]service.ImageUpload, 0, len(files))
	for i := range files {
		images = append(images, service.ImageUpload{Data: files[i], ContentType: types[i]})
	}
	return images, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// uuidQuery validates an optional uuid filter so a malformed value is a
// client error instead of a failed bind against a uuid column.
func uuidQuery(c *gin.Context, key, msg string) (string, bool) {
	raw := c.Query(key)
	if raw == "" {
		return "", true
	}
	if _, err := uuid.Parse(raw); err != nil {
		response.BadRequest(c, msg)
		return "", false
	}
	return raw, true
}

func (h *ProductHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.BadRequest(c, verrs.Error())
		return
	}

	switch {
	case errors.Is(err, product.ErrNoImages):
		response.BadRequest(c, "At least one product image is required")
	case errors.Is(err, product.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, category.ErrCategoryNotFound):
		response.NotFound(c, "Category not found")
	case errors.Is(err, product.ErrNotOwner):
		response.Forbidden(c, "You've no permission to modify this product")
	default:
		log.Error().Err(err).Msg("product handler error")
		response.InternalServerError(c)
	}
}
