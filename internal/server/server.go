// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "vendio/docs" // swagger docs
	"vendio/internal/cache"
	"vendio/internal/config"
	"vendio/internal/database"
	"vendio/internal/featureflags"
	"vendio/internal/mailer"
	"vendio/internal/middleware"
	"vendio/internal/models"
	"vendio/internal/notifications"
	"vendio/internal/repository"
	"vendio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "vendio-api"
	tokenAudience = "vendio-client"
	tokenTTL      = 10 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo     repository.UserRepository
	storeRepo    repository.StoreRepository
	productRepo  repository.ProductRepository
	linkRepo     repository.PaymentLinkRepository
	orderRepo    repository.OrderRepository
	purchaseRepo repository.PurchaseRepository
	bioRepo      repository.LinkInBioRepository

	authService     *service.AuthService
	userService     *service.UserService
	storeService    *service.StoreService
	productService  *service.ProductService
	linkService     *service.PaymentLinkService
	orderService    *service.OrderService
	purchaseService *service.PurchaseService
	bioService      *service.LinkInBioService

	mailer    *mailer.Mailer
	notifier  *notifications.Notifier
	orderFeed *notifications.OrderFeedHub
	flags     *featureflags.Manager
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	linkRepo := repository.NewPaymentLinkRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	bioRepo := repository.NewLinkInBioRepository(db)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("vendio-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		productRepo:    productRepo,
		linkRepo:       linkRepo,
		orderRepo:      orderRepo,
		purchaseRepo:   purchaseRepo,
		bioRepo:        bioRepo,
		mailer:         mailer.New(cfg),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
	}

	// Initialize notifier and order feed hub if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.orderFeed = notifications.NewOrderFeedHub()
	}

	server.userService = service.NewUserService(userRepo)
	server.storeService = service.NewStoreService(storeRepo)
	server.productService = service.NewProductService(productRepo, storeRepo)
	server.linkService = service.NewPaymentLinkService(linkRepo)
	server.bioService = service.NewLinkInBioService(bioRepo)
	server.authService = service.NewAuthService(userRepo, server.storeService, server.bioService, server.mailer)
	server.purchaseService = service.NewPurchaseService(purchaseRepo, linkRepo, userRepo, server.mailer)

	var orderNotifier service.OrderNotifier
	if server.notifier != nil {
		orderNotifier = server.notifier
	}
	server.orderService = service.NewOrderService(orderRepo, productRepo, storeRepo, userRepo, server.mailer, orderNotifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry spans; trace IDs land in locals before the logger runs
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Page-route session gate. API routes carry their own guard below.
	app.Use(middleware.EdgeGate(s.config))

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Vendio Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/signin", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "signin"), s.Signin)
	auth.Post("/logout", s.Logout)

	// Public storefront and bio pages (slug lookups, cache-aside backed)
	api.Get("/stores/:slug", s.GetPublicStore)
	api.Get("/bio/:username", s.GetPublicBio)
	api.Get("/pay/:slug", s.GetPublicPaymentLink)

	// Buyer-facing payment flows. These are unauthenticated: buyers are
	// guests or wallet holders, never signed-in users.
	api.Post("/checkout", middleware.RateLimit(
		s.redis, 10, time.Minute, "checkout"), s.Checkout)
	api.Post("/payments", middleware.RateLimit(
		s.redis, 10, time.Minute, "payments"), s.CreatePayment)
	api.Get("/payments", s.GetPaymentStatus)
	api.Post("/payment-callback", s.PaymentCallback)
	api.Post("/payment-link/purchase", middleware.RateLimit(
		s.redis, 10, time.Minute, "purchase"), s.CreatePurchase)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)

	// Store management (one store per creator)
	store := protected.Group("/store")
	store.Get("/", s.GetMyStore)
	store.Post("/", s.CreateMyStore)
	store.Put("/", s.UpdateMyStore)

	// Product routes
	products := protected.Group("/products")
	products.Get("/", s.GetMyProducts)
	products.Post("/", s.CreateProduct)
	products.Get("/:id", s.GetProduct)
	products.Put("/:id", s.UpdateProduct)
	products.Delete("/:id", s.DeleteProduct)

	// Payment link routes
	links := protected.Group("/payment-links")
	links.Get("/", s.GetMyPaymentLinks)
	links.Post("/", s.CreatePaymentLink)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	links.Get("/:id/purchases", s.GetLinkPurchases)
	links.Get("/:id", s.GetPaymentLink)
	links.Put("/:id", s.UpdatePaymentLink)
	links.Delete("/:id", s.DeletePaymentLink)

	// Purchases across all of the creator's links
	protected.Get("/purchases", s.GetMyPurchases)

	// Link-in-bio page
	bio := protected.Group("/linkinbio")
	bio.Get("/", s.GetMyBio)
	bio.Put("/", s.UpdateMyBio)

	// Seller order dashboard
	orders := protected.Group("/orders")
	orders.Get("/", s.GetStoreOrders)
	orders.Put("/:id/status", s.UpdateOrderStatus)

	// Websocket order feed - protected by AuthRequired
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/orders", s.OrderFeedUpgrade, s.OrderFeedHandler())

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/orders", s.AdminListOrders)
	admin.Get("/purchases", s.AdminListPurchases)
	admin.Put("/orders/:id/status", s.AdminUpdateOrderStatus)
	admin.Get("/feature-flags", s.AdminListFeatureFlags)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is considered required for full readiness in this app
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Vendio API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that the role claim is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// AuthRequired returns the authentication middleware. The session cookie is
// the primary credential; a Bearer header is accepted as a fallback for
// non-browser API clients.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(middleware.SessionCookieName)

		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation (populated by Logout)
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		role, _ := claims["role"].(string)

		// Store user ID and role in context
		c.Locals("userID", uint(userID))
		c.Locals("role", role)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Vendio API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Custom error handler
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the order feed hub to the Redis subscriber if available
	if s.notifier != nil && s.orderFeed != nil {
		go func() {
			if err := s.orderFeed.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start order feed wiring: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close order feed connections gracefully
	if s.orderFeed != nil {
		if err := s.orderFeed.Shutdown(ctx); err != nil {
			log.Printf("error shutting down order feed: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
