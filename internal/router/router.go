package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/wishwall-backend/config"
	"github.com/ikkim/wishwall-backend/internal/app/controller"
	"github.com/ikkim/wishwall-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	wishController   *controller.WishController
	authController   *controller.AuthController
	exportController *controller.ExportController
	feedController   *controller.FeedController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	wishController *controller.WishController,
	authController *controller.AuthController,
	exportController *controller.ExportController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		wishController:   wishController,
		authController:   authController,
		exportController: exportController,
		feedController:   feedController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "WISHWALL API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/google", r.authController.GoogleSignIn)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		// The wish surface is open to everyone; identity (JWT or session
		// cookie) is resolved when present, never required upfront.
		wishes := v1.Group("/wishes")
		wishes.Use(r.authMiddleware.ResolveIdentity())
		{
			wishes.POST("", r.wishController.CreateWish)
			wishes.PUT("", r.wishController.UpdateWish)
			wishes.GET("", r.wishController.GetWishes)
			wishes.GET("/current", r.wishController.GetCurrentWish)

			wishes.POST("/:id/support", r.wishController.SupportWish)
			wishes.DELETE("/:id/support", r.wishController.UnsupportWish)
			wishes.GET("/:id/support", r.wishController.GetSupportStatus)
		}

		user := v1.Group("/user")
		user.Use(r.authMiddleware.ResolveIdentity())
		{
			user.GET("/wish", r.wishController.GetUserWish)
		}

		ws := v1.Group("/ws")
		{
			ws.GET("/feed", r.feedController.Subscribe)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/wishes/export", r.exportController.ExportWishes)
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
