package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/storefront-backend/internal/handlers"
	"github.com/yungbote/storefront-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "storefront"
	}
	router.Use(otelgin.Middleware(serviceName))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/user/register", cfg.AuthHandler.Register)
	router.POST("/user/login", cfg.AuthHandler.Login)
	router.GET("/products", cfg.ProductHandler.ListProducts)
	router.GET("/products/:productId", cfg.ProductHandler.GetProduct)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/user/my-orders", cfg.OrderHandler.GetMyOrders)
	protected.GET("/cart", cfg.CartHandler.GetCart)
	protected.POST("/cart/items", cfg.CartHandler.AddItem)
	protected.PUT("/cart/items", cfg.CartHandler.UpdateItem)
	protected.DELETE("/cart/items/:productId", cfg.CartHandler.RemoveItem)
	protected.DELETE("/cart", cfg.CartHandler.ClearCart)
	protected.POST("/cart/checkout", cfg.CartHandler.Checkout)

	return router
}
