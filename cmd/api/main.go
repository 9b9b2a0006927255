package main

import (
	"fmt"
	"net/http"
	"os"

	"hisabu/internal/config"
	"hisabu/internal/database"
	"hisabu/internal/handlers"
	"hisabu/internal/ledger"
	"hisabu/internal/logger"
	"hisabu/internal/middleware"
	"hisabu/internal/services"
	"hisabu/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Hisabu API
// @version         1.0
// @description     Hisabu is a small accounting backend for tracking expenses, incomes, and the cash and bank balances they move.

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

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	engine := ledger.NewEngine(accountService, appConfig.AllowNegativeBalance)
	expenseService := services.NewExpenseService(db, engine)
	incomeService := services.NewIncomeService(db, engine)
	reportService := services.NewReportService(db)

	// Seed the cash and bank account rows if migrations did not
	if err := accountService.EnsureDefaultAccounts(); err != nil {
		return fmt.Errorf("failed to seed default accounts: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	reportHandler := handlers.NewReportHandler(reportService)

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

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/balances", accountHandler.GetBalances)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Income routes
	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/:id", incomeHandler.GetIncomeByID)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/expenses/daily", reportHandler.GetDailyExpenses)
	reports.GET("/expenses/monthly", reportHandler.GetMonthlyExpenses)
	reports.GET("/expenses/by-category", reportHandler.GetExpensesByCategory)
	reports.GET("/incomes/by-type", reportHandler.GetIncomesByType)

	log.Infof("Starting hisabu backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
