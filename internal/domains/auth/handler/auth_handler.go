package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/domains/auth"
	"marketplace-backend/internal/domains/user"
	"marketplace-backend/internal/infrastructure/email"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// Cookie lifetimes in seconds, matched to the token TTLs.
const (
	otpCookieMaxAge      = 15 * 60
	verifiedCookieMaxAge = 25 * 60
	sessionCookieMaxAge  = 7 * 24 * 3600
	resetCookieMaxAge    = 15 * 60
)

// AuthHandler exposes the OTP and session flows over HTTP. Stateless;
// every step's state lives in the signed token the client holds.
type AuthHandler struct {
	service      auth.Service
	cookieSecure bool
}

func NewAuthHandler(service auth.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cookieSecure: cookieSecure}
}

// ========================================
// OTP FLOW
// ========================================

// SendOTP handles POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req auth.SendOTPRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	otpToken, err := h.service.SendOTP(c.Request.Context(), req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setCookie(c, middleware.CookieOTPPending, otpToken, otpCookieMaxAge)
	response.Success(c, http.StatusOK, "Verification email sent", nil)
}

// VerifyOTP handles POST /auth/verify-otp. Requires the otp-pending gate.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req auth.VerifyOTPRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	emailAddr, _ := middleware.UserEmail(c)
	otpHash := c.GetString(middleware.CtxOTPHash)

	verifiedToken, err := h.service.VerifyOTP(c.Request.Context(), emailAddr, otpHash, req.OTP)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setCookie(c, middleware.CookieEmailVerified, verifiedToken, verifiedCookieMaxAge)
	response.Success(c, http.StatusOK, "User verified successfully", nil)
}

// Register handles POST /auth/register. Requires the email-verified gate.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	emailAddr, _ := middleware.UserEmail(c)

	res, err := h.service.Register(c.Request.Context(), emailAddr, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// The step cookies are spent; next requests carry the session token.
	h.clearCookie(c, middleware.CookieOTPPending)
	h.clearCookie(c, middleware.CookieEmailVerified)
	h.setCookie(c, middleware.CookieSession, res.Token, sessionCookieMaxAge)

	response.Success(c, http.StatusCreated, "User created successfully", res.User)
}

// ========================================
// SESSION FLOW
// ========================================

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setCookie(c, middleware.CookieSession, res.Token, sessionCookieMaxAge)
	response.Success(c, http.StatusOK, "Login successful", res.User)
}

// Logout handles POST /auth/logout. Clears the client-held cookie only;
// the token itself stays valid until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearCookie(c, middleware.CookieSession)
	response.Success(c, http.StatusOK, "Successfully logged out", nil)
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	resetToken, err := h.service.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setCookie(c, middleware.CookieResetPending, resetToken, resetCookieMaxAge)
	response.Success(c, http.StatusOK, "Password reset OTP sent to your email", nil)
}

// ResetPassword handles POST /auth/reset-password. Requires the
// reset-pending gate.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	emailAddr, _ := middleware.UserEmail(c)

	if err := h.service.ResetPassword(c.Request.Context(), emailAddr, req.OTP, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}

	h.clearCookie(c, middleware.CookieResetPending)
	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

// ========================================
// HELPERS
// ========================================

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, "", -1, "/", "", h.cookieSecure, true)
}

type validator interface {
	Validate() error
}

func (h *AuthHandler) bindAndValidate(c *gin.Context, req validator) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses in one place.
func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrInvalidOrExpiredOTP):
		response.BadRequest(c, err.Error())

	case errors.Is(err, auth.ErrAlreadyRegistered):
		response.BadRequest(c, "User already exists")

	case errors.Is(err, user.ErrInvalidCredentials):
		response.BadRequest(c, "Password was not matched")

	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")

	case errors.Is(err, user.ErrUserAlreadyExists):
		response.Conflict(c, "This user already exists")

	case errors.Is(err, email.ErrDeliveryFailed):
		response.UpstreamUnavailable(c, "Could not send email, please try again")

	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("auth handler error")
		response.InternalServerError(c)
	}
}
