package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/domains/seller/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/internal/shared/utils"
)

const maxLogoBytes = 5 << 20

type SellerHandler struct {
	service service.Service
}

func NewSellerHandler(service service.Service) *SellerHandler {
	return &SellerHandler{service: service}
}

// BecomeSeller handles POST /auth/become-seller (multipart, session gate).
func (h *SellerHandler) BecomeSeller(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req seller.BecomeSellerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	logo, contentType, err := utils.ReadFormFile(c, "logo", maxLogoBytes)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.BecomeSeller(c.Request.Context(), userID, req, logo, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Seller profile created successfully", s)
}

// GetProfile handles GET /sellers/me (session + seller gates).
func (h *SellerHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	s, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Seller found", s)
}

func (h *SellerHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors

	switch {
	case errors.As(err, &vErrs):
		response.BadRequest(c, err.Error())

	case errors.Is(err, seller.ErrAlreadySeller):
		response.Conflict(c, "User is already a seller")

	case errors.Is(err, seller.ErrSellerNotFound):
		response.NotFound(c, "Seller not found")

	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("seller handler error")
		response.InternalServerError(c)
	}
}
