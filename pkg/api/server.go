package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/example/shopmate/pkg/analytics"
	"github.com/example/shopmate/pkg/auth"
	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/events"
	"github.com/example/shopmate/pkg/repository"
	"github.com/example/shopmate/pkg/settlement"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps collects everything the HTTP surface delegates to.
type Deps struct {
	Tokens     *auth.Tokens
	Orders     repository.OrderStore
	Products   repository.ProductStore
	Users      repository.UserStore
	Wishes     repository.WishStore
	Settings   repository.SettingsStore
	Cache      *repository.Cache
	Settlement *settlement.Service
	Analytics  *analytics.Aggregator
	Events     *events.Publisher
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	s := &Server{
		config: cfg,
		logger: logger,
		router: router,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := auth.RequireAuth(s.deps.Tokens)
	admin := auth.RequireAdmin()
	sellerOrAdmin := auth.RequireSellerOrAdmin()

	v1 := s.router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/signin", s.signin)
			users.POST("/signup", s.signup)
			users.GET("/top-sellers", s.topSellers)
			users.GET("", authed, admin, s.listUsers)
			users.PUT("/profile", authed, s.updateProfile)
			users.PUT("/block/:id", authed, admin, s.blockUser)
			users.PUT("/unblock/:id", authed, admin, s.unblockUser)
			users.GET("/:id", s.getUser)
			users.PUT("/:id", authed, admin, s.updateUser)
			users.DELETE("/:id", authed, admin, s.deleteUser)
		}

		products := v1.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/store", s.searchProducts)
			products.GET("/categories", s.listCategories)
			products.GET("/admin", authed, admin, s.adminProducts)
			products.GET("/slug/:slug", s.getProductBySlug)
			products.GET("/related/:id", s.relatedProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", authed, sellerOrAdmin, s.createProduct)
			products.PUT("/:id", authed, sellerOrAdmin, s.updateProduct)
			products.DELETE("/:id", authed, admin, s.deleteProduct)
			products.POST("/:id/reviews", authed, s.createReview)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", authed, s.createOrder)
			orders.GET("", authed, sellerOrAdmin, s.listOrders)
			orders.GET("/admin", authed, sellerOrAdmin, s.adminOrders)
			orders.GET("/mine", authed, s.myOrders)
			orders.GET("/summary", authed, sellerOrAdmin, s.orderSummary)
			orders.GET("/spent", authed, sellerOrAdmin, s.userSpend)
			orders.GET("/daily-sales", authed, sellerOrAdmin, s.dailySales)
			orders.GET("/:id", authed, s.getOrder)
			orders.PUT("/:id/pay", authed, s.payOrder)
			orders.PUT("/:id/deliver", authed, s.deliverOrder)
			orders.DELETE("/:id", authed, sellerOrAdmin, s.deleteOrder)
		}

		wishes := v1.Group("/wishes", authed)
		{
			wishes.POST("", s.createWish)
			wishes.GET("", s.listWishes)
			wishes.PUT("/:id/check", s.checkWish)
			wishes.DELETE("/:id", s.deleteWish)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", s.getSettings)
			settings.PUT("", authed, admin, s.updateSettings)
		}
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("API server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
