package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/domains/user/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/internal/shared/utils"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	service service.Service
}

func NewUserHandler(service service.Service) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	avatar, contentType, err := utils.ReadFormFile(c, "avatar", maxAvatarBytes)
	if err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			response.BadRequest(c, "Avatar exceeds the maximum allowed size")
		} else {
			response.BadRequest(c, "Could not read uploaded avatar")
		}
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req, avatar, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", profile)
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Account deleted successfully", nil)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.BadRequest(c, verrs.Error())
		return
	}

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		log.Error().Err(err).Msg("user handler error")
		response.InternalServerError(c)
	}
}
