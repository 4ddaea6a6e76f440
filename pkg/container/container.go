package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/internal/infrastructure/email"
	"marketplace-backend/internal/infrastructure/storage"
	"marketplace-backend/pkg/token"

	"marketplace-backend/internal/domains/auth"
	authHandler "marketplace-backend/internal/domains/auth/handler"
	authService "marketplace-backend/internal/domains/auth/service"
	"marketplace-backend/internal/domains/category"
	categoryHandler "marketplace-backend/internal/domains/category/handler"
	categoryRepo "marketplace-backend/internal/domains/category/repository"
	categoryService "marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/domains/order"
	orderHandler "marketplace-backend/internal/domains/order/handler"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	orderService "marketplace-backend/internal/domains/order/service"
	"marketplace-backend/internal/domains/product"
	productHandler "marketplace-backend/internal/domains/product/handler"
	productRepo "marketplace-backend/internal/domains/product/repository"
	productService "marketplace-backend/internal/domains/product/service"
	"marketplace-backend/internal/domains/seller"
	sellerHandler "marketplace-backend/internal/domains/seller/handler"
	sellerRepo "marketplace-backend/internal/domains/seller/repository"
	sellerService "marketplace-backend/internal/domains/seller/service"
	"marketplace-backend/internal/domains/user"
	userHandler "marketplace-backend/internal/domains/user/handler"
	userRepo "marketplace-backend/internal/domains/user/repository"
	userService "marketplace-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph: infrastructure first,
// then repositories, services, handlers. Every field is a singleton for
// the process lifetime.
type Container struct {
	Config       *config.Config
	DB           *database.PostgresDB
	Cache        *cache.RedisClient
	Storage      storage.BlobStore
	TokenManager *token.Manager
	Email        email.Service

	UserRepo     user.Repository
	SellerRepo   seller.Repository
	CategoryRepo category.Repository
	ProductRepo  product.Repository
	OrderRepo    order.Repository

	AuthService     auth.Service
	UserService     userService.Service
	SellerService   sellerService.Service
	CategoryService categoryService.Service
	ProductService  productService.Service
	OrderService    orderService.Service

	AuthHandler     *authHandler.AuthHandler
	UserHandler     *userHandler.UserHandler
	SellerHandler   *sellerHandler.SellerHandler
	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler
	OrderHandler    *orderHandler.OrderHandler
}

// NewContainer builds the whole graph. Order matters: config, then
// infrastructure, then the domain layers on top of it.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	c.Cache = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	c.TokenManager = token.NewManager(cfg.JWT.Secret)

	if cfg.Email.QueueEnabled {
		c.Email = email.NewQueueService(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	} else {
		c.Email = email.NewSMTPService(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.Timeout)
	}

	// Repositories
	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.SellerRepo = sellerRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(c.DB.Pool)
	c.ProductRepo = productRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.OrderRepo = orderRepo.NewPostgresRepository(c.DB.Pool, c.Cache)

	// Services
	c.AuthService = authService.NewAuthService(c.UserRepo, c.TokenManager, c.Email)
	c.UserService = userService.NewUserService(c.UserRepo, c.Storage)
	c.SellerService = sellerService.NewSellerService(c.SellerRepo, c.Storage)
	c.CategoryService = categoryService.NewService(c.CategoryRepo)
	c.ProductService = productService.NewProductService(c.ProductRepo, c.CategoryRepo, c.Storage)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.ProductRepo, c.SellerRepo, c.UserRepo, c.Email)

	// Handlers
	cookieSecure := cfg.App.Environment == "production"
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService, cookieSecure)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.SellerHandler = sellerHandler.NewSellerHandler(c.SellerService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)

	log.Info().Str("environment", cfg.App.Environment).Msg("dependency container initialized")
	return c, nil
}

// Cleanup releases infrastructure connections. Safe to call once during
// shutdown.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis connection")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("dependency container cleaned up")
}
