package main

import (
	"context"
	"log"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/application/service"
	"github.com/bkaradeniz/veresiye-api/internal/config"
	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/database"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/handler"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/routes"
	"github.com/bkaradeniz/veresiye-api/pkg/terminal"
	"github.com/bkaradeniz/veresiye-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	creditRepo := repository.NewCreditTransactionRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	cashTxRepo := repository.NewCashTransactionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize card terminal
	cardTerminal, err := terminal.NewTerminalFromConfig(
		cfg.Terminal.Type,
		cfg.Terminal.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize terminal: %v", err)
		cardTerminal = terminal.NewNullTerminal()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	ledgerService := service.NewLedgerService(customerRepo, creditRepo, cfg.Ledger.ApproachingDueDays)
	cashService := service.NewCashService(sessionRepo, cashTxRepo)
	settlementService := service.NewSettlementService(ledgerService, cashService, customerRepo, cardTerminal, cfg.Terminal.Device, cfg.Ledger.VATRate)
	customerService := service.NewCustomerService(customerRepo, ledgerService)
	dashboardService := service.NewDashboardService(analyticsRepo, customerRepo, sessionRepo)
	userService := service.NewUserService(userRepo)

	// Daily maintenance: flip past-due entries to overdue and purge
	// expired idempotency keys. Runs once at startup, then on a ticker.
	dailyMaintenance(ledgerService, idempotencyRepo)
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			dailyMaintenance(ledgerService, idempotencyRepo)
		}
	}()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Customer:   handler.NewCustomerHandler(customerService, ledgerService),
		Ledger:     handler.NewLedgerHandler(ledgerService, settlementService),
		Cash:       handler.NewCashHandler(cashService),
		Settlement: handler.NewSettlementHandler(settlementService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		User:       handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func dailyMaintenance(ledgerService *service.LedgerService, idempotencyRepo domainRepo.IdempotencyRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	updated, err := ledgerService.RefreshOverdueStatuses(ctx)
	if err != nil {
		log.Printf("Warning: Failed to refresh overdue statuses: %v", err)
	} else if updated > 0 {
		log.Printf("Marked %d ledger entries overdue", updated)
	}

	if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
		log.Printf("Warning: Failed to purge expired idempotency keys: %v", err)
	}
}
