package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"branhox/internal/ai"
	"branhox/internal/auth"
	"branhox/internal/config"
	"branhox/internal/database"
	"branhox/internal/handlers"
	"branhox/internal/logger"
	"branhox/internal/middleware"
	"branhox/internal/services"
	"branhox/internal/validator"

	_ "branhox/internal/docs" // Import swagger docs
)

// @title           Branhox API
// @version         1.0
// @description     Branhox is the back office of a gaming agency: agents record player recharges, freeplays and redeems, and owners review daily, monthly, referral and agent reports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if appConfig.AIAPIKey == "" && appConfig.AIAPIKeySecretID != "" {
		sm, err := config.NewSecretsClient(ctx, appConfig.AWSRegion)
		if err != nil {
			return fmt.Errorf("failed to create secrets client: %w", err)
		}
		if err := appConfig.ResolveAIKey(ctx, sm); err != nil {
			// AI summaries are optional; the rest of the API still works.
			log.Warnw("AI key could not be resolved, insights disabled", "error", err)
		}
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	var provider auth.Provider
	if appConfig.UseCognito() {
		provider, err = auth.NewCognitoProviderFromEnv(ctx, appConfig.AWSRegion, appConfig.CognitoClientID)
		if err != nil {
			return fmt.Errorf("failed to create cognito provider: %w", err)
		}
		log.Infof("Using Cognito auth provider in %s", appConfig.AWSRegion)
	} else {
		provider = auth.NewLocalProvider(db)
	}

	var summarizer ai.Summarizer
	if appConfig.AIAPIKey != "" {
		summarizer = ai.NewGeminiClient(appConfig.AIAPIKey, appConfig.AIModel, appConfig.AIBaseURL, appConfig.AITimeout)
	} else {
		log.Info("AI_API_KEY not set, insights disabled")
	}

	// Initialize services
	store := services.NewEntityStore(db)
	auditService := services.NewAuditService(db)
	insightService := services.NewInsightService(summarizer)
	agentService := services.NewAgentService(db)
	businessService := services.NewBusinessService(db, provider, agentService)
	entryService := services.NewEntryService(db, store, insightService.Invalidate)
	settingsService := services.NewSettingsService(db, store)
	reportService := services.NewReportService(db, store)

	businessService.OnAuthStateChange(services.AuthAuditListener(auditService))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(businessService)
	businessHandler := handlers.NewBusinessHandler(businessService, auditService)
	entryHandler := handlers.NewEntryHandler(entryService, store, auditService)
	agentHandler := handlers.NewAgentHandler(agentService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, insightService)

	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ai": insightService.Available()})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	admin := middleware.RequireRole(middleware.RoleAdmin)
	agent := middleware.RequireRole(middleware.RoleAgent)

	protected.POST("/auth/logout", admin, authHandler.Logout)
	protected.POST("/session/agent", admin, authHandler.StartAgentSession)
	protected.GET("/business", businessHandler.GetBusiness)
	protected.PUT("/business", admin, businessHandler.UpdateBusiness)

	// Entry routes
	entries := protected.Group("/entries")
	entries.POST("", entryHandler.SubmitEntry)
	entries.GET("/recent", agent, entryHandler.RecentSubmissions)
	entries.GET("/next-id", entryHandler.NextEntryID)
	entries.POST("/import", admin, entryHandler.ImportEntries)
	entries.DELETE("/month/:month", admin, entryHandler.DeleteMonth)
	entries.PUT("/:id", admin, entryHandler.EditEntry)
	entries.DELETE("/:id", admin, entryHandler.DeleteEntry)

	// Agent routes
	agents := protected.Group("/agents", admin)
	agents.GET("", agentHandler.ListAgents)
	agents.POST("", agentHandler.RegisterAgent)
	agents.PUT("/:id", agentHandler.UpdateAgent)
	agents.DELETE("/:id", agentHandler.DeleteAgent)
	agents.PUT("/:id/status", agentHandler.SetAgentStatus)
	agents.PUT("/:id/password", agentHandler.ResetAgentPassword)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.POST("/:key", admin, settingsHandler.AddSettingValue)
	settings.PUT("/:key/:index", admin, settingsHandler.EditSettingValue)
	settings.DELETE("/:key/:index", admin, settingsHandler.DeleteSettingValue)

	// Report routes
	reportRoutes := protected.Group("/reports", admin)
	reportRoutes.GET("/daily", reportHandler.Daily)
	reportRoutes.GET("/monthly", reportHandler.Monthly)
	reportRoutes.GET("/monthly/pdf", reportHandler.MonthlyPDF)
	reportRoutes.GET("/referral", reportHandler.Referral)
	reportRoutes.GET("/progress", reportHandler.Progress)
	reportRoutes.GET("/:report/export", reportHandler.Export)
	reportRoutes.POST("/:report/insight", reportHandler.Insight)

	log.Infof("Starting Branhox backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
