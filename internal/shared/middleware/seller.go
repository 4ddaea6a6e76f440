package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/seller"
	"marketplace-backend/internal/shared/response"
)

// Seller requires Auth to have resolved an identity, then requires a
// Seller record for that user. A valid identity without one gets 403.
// Resource ownership (does this seller own the product/order being
// mutated) is checked per-handler against the seller id injected here.
func Seller(sellers seller.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxUserID)
		if !exists {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		userID, ok := value.(uuid.UUID)
		if !ok {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		s, err := sellers.FindByUserID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, seller.ErrSellerNotFound) {
				response.Forbidden(c, "You've no permission as a seller")
			} else {
				log.Error().Err(err).Msg("seller lookup failed")
				response.UpstreamUnavailable(c, "Service temporarily unavailable")
			}
			c.Abort()
			return
		}

		c.Set(CtxSellerID, s.ID)
		c.Next()
	}
}

// SellerID reads the seller id injected by Seller.
func SellerID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(CtxSellerID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// UserID reads the user id injected by Auth or ResetPending.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(CtxUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// UserEmail reads the email injected by any gate.
func UserEmail(c *gin.Context) (string, bool) {
	value, exists := c.Get(CtxUserEmail)
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}
