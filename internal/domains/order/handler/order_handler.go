package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/order"
	"marketplace-backend/internal/domains/order/service"
	"marketplace-backend/internal/domains/product"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

type OrderHandler struct {
	service service.Service
}

func NewOrderHandler(service service.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// Buy handles POST /products/:id/buy
func (h *OrderHandler) Buy(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req order.BuyProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.Buy(c.Request.Context(), userID, productID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Order placed successfully", o)
}

// ListMine handles GET /orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orders, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// ListForSeller handles GET /sellers/orders
func (h *OrderHandler) ListForSeller(c *gin.Context) {
	sellerID, ok := middleware.SellerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orders, err := h.service.ListForSeller(c.Request.Context(), sellerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// UpdateStatus handles PUT /sellers/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	sellerID, ok := middleware.SellerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), sellerID, orderID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Order status updated successfully", o)
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.BadRequest(c, verrs.Error())
		return
	}

	switch {
	case errors.Is(err, product.ErrInsufficientStock):
		response.BadRequest(c, "Not enough stock available")
	case errors.Is(err, product.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, order.ErrOrderNotFound):
		response.NotFound(c, "Order not found")
	case errors.Is(err, order.ErrInvalidStatus):
		response.BadRequest(c, "Invalid order status")
	case errors.Is(err, order.ErrNotSeller):
		response.Forbidden(c, "You've no permission to modify this order")
	default:
		log.Error().Err(err).Msg("order handler error")
		response.InternalServerError(c)
	}
}
