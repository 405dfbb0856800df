package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pizzastack/pizzastack-backend/config"
	"github.com/pizzastack/pizzastack-backend/internal/app/controller"
	"github.com/pizzastack/pizzastack-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	userController      *controller.UserController
	franchiseController *controller.FranchiseController
	orderController     *controller.OrderController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	franchiseController *controller.FranchiseController,
	orderController *controller.OrderController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		userController:      userController,
		franchiseController: franchiseController,
		orderController:     orderController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "pizzastack API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("", r.authController.Register)
			auth.PUT("", r.authController.Login)
			auth.DELETE("", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		user := api.Group("/user")
		user.Use(r.authMiddleware.Authenticate())
		{
			user.GET("", r.userController.List)
			user.GET("/me", r.userController.Me)
			user.PUT("/:userId", r.userController.Update)
		}

		franchise := api.Group("/franchise")
		{
			franchise.GET("", r.franchiseController.List)
			franchise.GET("/:userId", r.authMiddleware.Authenticate(), r.franchiseController.ListByUser)
			franchise.POST("", r.authMiddleware.Authenticate(), r.franchiseController.Create)
			franchise.DELETE("/:franchiseId", r.authMiddleware.Authenticate(), r.franchiseController.Delete)
			franchise.POST("/:franchiseId/store", r.authMiddleware.Authenticate(), r.franchiseController.CreateStore)
			franchise.DELETE("/:franchiseId/store/:storeId", r.authMiddleware.Authenticate(), r.franchiseController.DeleteStore)
		}

		order := api.Group("/order")
		{
			order.GET("/menu", r.orderController.Menu)
			order.PUT("/menu", r.authMiddleware.Authenticate(), r.orderController.AddMenuItem)
			order.POST("/verify", r.orderController.Verify)
			order.GET("", r.authMiddleware.Authenticate(), r.orderController.List)
			order.POST("", r.authMiddleware.Authenticate(), r.orderController.Create)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
