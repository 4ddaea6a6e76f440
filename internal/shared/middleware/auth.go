package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/token"
)

// Cookie names, kept compatible with the original clients.
const (
	CookieOTPPending    = "otpsent"
	CookieEmailVerified = "verified"
	CookieSession       = "authtoken"
	CookieResetPending  = "resetpasswordtoken"
)

// Context keys set by the gates below.
const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxOTPHash   = "otp_hash"
	CtxSellerID  = "seller_id"
)

// tokenFromRequest accepts a token from the named cookie, a same-named
// header, or an Authorization bearer header. Presence in any is enough.
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	if v := c.GetHeader(cookieName); v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// verifyGate builds a middleware that requires a valid token of the given
// kind. Absent, malformed, and expired tokens all produce the same 401 so
// the client cannot tell which it was.
func verifyGate(tm *token.Manager, cookieName string, kind token.Kind, apply func(*gin.Context, *token.Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c, cookieName)
		if raw == "" {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := tm.Verify(raw, kind)
		if err != nil {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		if !apply(c, claims) {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Auth requires a valid session token and injects the caller's identity.
func Auth(tm *token.Manager) gin.HandlerFunc {
	return verifyGate(tm, CookieSession, token.KindSession, func(c *gin.Context, claims *token.Claims) bool {
		userID, err := claims.UserUUID()
		if err != nil {
			return false
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxUserEmail, claims.Email)
		return true
	})
}

// OTPPending gates verify-otp: requires the otp-pending token from send-otp.
func OTPPending(tm *token.Manager) gin.HandlerFunc {
	return verifyGate(tm, CookieOTPPending, token.KindOTPPending, func(c *gin.Context, claims *token.Claims) bool {
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxOTPHash, claims.OTPHash)
		return true
	})
}

// EmailVerified gates register: requires the token issued by verify-otp.
func EmailVerified(tm *token.Manager) gin.HandlerFunc {
	return verifyGate(tm, CookieEmailVerified, token.KindEmailVerified, func(c *gin.Context, claims *token.Claims) bool {
		c.Set(CtxUserEmail, claims.Email)
		return true
	})
}

// ResetPending gates reset-password: requires the token from forgot-password.
func ResetPending(tm *token.Manager) gin.HandlerFunc {
	return verifyGate(tm, CookieResetPending, token.KindResetPending, func(c *gin.Context, claims *token.Claims) bool {
		userID, err := claims.UserUUID()
		if err != nil {
			return false
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxUserEmail, claims.Email)
		return true
	})
}
