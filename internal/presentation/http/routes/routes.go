package routes

import (
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/config"
	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/handler"
	"github.com/bkaradeniz/veresiye-api/internal/presentation/http/middleware"
	"github.com/bkaradeniz/veresiye-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Customer   *handler.CustomerHandler
	Ledger     *handler.LedgerHandler
	Cash       *handler.CashHandler
	Settlement *handler.SettlementHandler
	Dashboard  *handler.DashboardHandler
	User       *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	registerCustomerRoutes(protected, h, deps)
	registerSettlementRoutes(protected, h, deps)
	registerCashRoutes(protected, h)
	registerAdminRoutes(protected, h)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	customers := protected.Group("/customers")
	{
		// Ledger writes honor an Idempotency-Key header when the client
		// sends one, but do not demand it.
		idem := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/indebted", h.Customer.ListIndebted)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/summary", h.Customer.Summary)
		customers.GET("/:id/transactions", h.Ledger.ListTransactions)
		customers.POST("/:id/transactions", idem, h.Ledger.AddTransaction)
		customers.POST("/:id/collect", idem, h.Ledger.CollectPayment)
	}
}

func registerSettlementRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	settlements := protected.Group("/settlements")
	{
		// Settlement commits use idempotency middleware so a retried
		// request cannot charge or book twice.
		idem := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})
		settlements.POST("/normal", idem, h.Settlement.SettleNormal)
		settlements.POST("/product-split/leg", idem, h.Settlement.SettleProductSplitLeg)
		settlements.POST("/equal-split", idem, h.Settlement.SettleEqualSplit)
	}
}

func registerCashRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/cash/sessions")
	{
		sessions.GET("", h.Cash.ListSessions)
		sessions.POST("", h.Cash.OpenSession)
		sessions.GET("/open", h.Cash.GetOpenSession)
		sessions.POST("/:id/transactions", h.Cash.AddTransaction)
		sessions.POST("/:id/counting", h.Cash.RecordCounting)
		sessions.POST("/:id/close", h.Cash.CloseSession)
		sessions.GET("/:id/report", h.Cash.GetReport)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/auth/register", h.Auth.Register)
		admin.POST("/ledger/refresh-overdue", h.Ledger.RefreshOverdue)

		users := admin.Group("/users")
		{
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.PUT("/:id", h.User.Update)
			users.DELETE("/:id", h.User.Delete)
		}
	}
}
