package routes

import (
	"tradeos/internal/api/handlers"
	"tradeos/internal/api/middleware"
	"tradeos/internal/config"
	"tradeos/internal/models"
	"tradeos/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	// Initialize services
	authService := services.NewAuthService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(cfg)
	configHandler := handlers.NewSysConfigHandler(cfg)
	messageHandler := handlers.NewMessageHandler(cfg)
	tradeHandler := handlers.NewTradeHandler(cfg)

	// Middleware
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "TradeOS API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/login/confirm", authHandler.ConfirmLogin)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/auth/me", authHandler.GetMe)

		// User administration
		users := protected.Group("/users")
		users.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/sessions", userHandler.GetSessions)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), userHandler.DeleteUser)
		}

		// System configuration
		sysconfig := protected.Group("/config")
		sysconfig.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			sysconfig.GET("", configHandler.ListConfigs)
			sysconfig.POST("", configHandler.CreateConfig)
			sysconfig.PUT("/:id", configHandler.UpdateConfig)
			sysconfig.DELETE("/:id", configHandler.DeleteConfig)
			sysconfig.GET("/:id/history", configHandler.GetConfigHistory)
		}

		// Multi-language messages
		messages := protected.Group("/messages")
		messages.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			messages.GET("", messageHandler.ListMessages)
			messages.POST("", messageHandler.CreateMessage)
			messages.PUT("/:id", messageHandler.UpdateMessage)
			messages.DELETE("/:id", messageHandler.DeleteMessage)
			messages.POST("/export", messageHandler.ExportMessages)
		}

		// Portfolio
		trades := protected.Group("/trades")
		{
			trades.GET("", tradeHandler.ListTrades)
			trades.GET("/:id", tradeHandler.GetTrade)
			trades.POST("", tradeHandler.CreateTrade)
			trades.PUT("/:id", tradeHandler.UpdateTrade)
			trades.DELETE("/:id", tradeHandler.DeleteTrade)
		}

		capital := protected.Group("/capital")
		{
			capital.GET("/summary", tradeHandler.GetCapitalSummary)
			capital.GET("/entries", tradeHandler.ListCapitalEntries)
			capital.POST("/entries", tradeHandler.CreateCapitalEntry)
		}
	}
}
