package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupProductRoutes(v1, c)
		setupOrderRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	tm := c.TokenManager

	auth := v1.Group("/auth")
	{
		auth.POST("/send-otp", c.AuthHandler.SendOTP)
		auth.POST("/verify-otp", middleware.OTPPending(tm), c.AuthHandler.VerifyOTP)
		auth.POST("/register", middleware.EmailVerified(tm), c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/logout", middleware.Auth(tm), c.AuthHandler.Logout)
		auth.POST("/forgot-password", c.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", middleware.ResetPending(tm), c.AuthHandler.ResetPassword)
		auth.POST("/become-seller", middleware.Auth(tm), c.SellerHandler.BecomeSeller)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users", middleware.Auth(c.TokenManager))
	{
		users.GET("/me", c.UserHandler.GetMe)
		users.PUT("/me", c.UserHandler.UpdateMe)
		users.DELETE("/me", c.UserHandler.DeleteMe)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/:id", c.CategoryHandler.GetByID)
		categories.POST("", c.CategoryHandler.Create)
		categories.PUT("/:id", c.CategoryHandler.Update)
		categories.DELETE("/:id", c.CategoryHandler.Delete)
	}
}

// ========================================
// PRODUCT ROUTES
// ========================================
func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authGate := middleware.Auth(c.TokenManager)
	sellerGate := middleware.Seller(c.SellerRepo)

	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.GetByID)

		products.POST("", authGate, sellerGate, c.ProductHandler.Create)
		products.PUT("/:id", authGate, sellerGate, c.ProductHandler.Update)
		products.DELETE("/:id", authGate, sellerGate, c.ProductHandler.Delete)

		products.POST("/:id/buy", authGate, c.OrderHandler.Buy)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authGate := middleware.Auth(c.TokenManager)
	sellerGate := middleware.Seller(c.SellerRepo)

	v1.GET("/orders", authGate, c.OrderHandler.ListMine)

	sellers := v1.Group("/sellers", authGate)
	{
		sellers.GET("/profile", sellerGate, c.SellerHandler.GetProfile)
		sellers.GET("/orders", sellerGate, c.OrderHandler.ListForSeller)
		sellers.PUT("/orders/:id/status", sellerGate, c.OrderHandler.UpdateStatus)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{
			"status":      "ok",
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
		}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		if err := c.Cache.HealthCheck(checkCtx); err != nil {
			status["status"] = "degraded"
			status["cache"] = "down"
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}

		response.Success(ctx, http.StatusOK, "healthy", status)
	}
}
