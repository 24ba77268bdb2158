// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"facture/internal/domain/auth"
	"facture/internal/domain/catalogs/customer"
	"facture/internal/domain/company"
	"facture/internal/domain/documents/estimate"
	"facture/internal/domain/documents/invoice"
	"facture/internal/domain/documents/payment"
	"facture/internal/infrastructure/http/v1/handlers"
	"facture/internal/infrastructure/http/v1/middleware"
	"facture/internal/infrastructure/storage/postgres"
	"facture/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Domain services
	AuthService     *auth.Service
	CompanyService  *company.Service
	CustomerService *customer.Service
	InvoiceService  *invoice.Service
	EstimateService *estimate.Service
	PaymentService  *payment.Service

	// Audit serves entity change history
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, baseHandler, cfg)
		registerCompanyRoutes(api, baseHandler, cfg)

		// Company-scoped endpoints: JWT first, then the X-Company-ID
		// header checked against the token's memberships.
		scoped := api.Group("")
		scoped.Use(middleware.Auth(cfg.JWTValidator))
		scoped.Use(middleware.Company())

		registerSettingsRoutes(scoped, baseHandler, cfg)
		registerCustomerRoutes(scoped, baseHandler, cfg)
		registerDocumentRoutes(scoped, baseHandler, cfg)

		if cfg.Audit != nil {
			handlers.NewAuditHandler(baseHandler, cfg.Audit).RegisterRoutes(scoped)
		}
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	public := rg.Group("/auth")

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(public, protected)
}

// registerCompanyRoutes registers company management endpoints. These need a
// JWT but no X-Company-ID; the company is addressed by path.
func registerCompanyRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCompanyHandler(base, cfg.CompanyService, cfg.AuthService)

	companies := rg.Group("/companies")
	companies.Use(middleware.Auth(cfg.JWTValidator))
	{
		companies.GET("", handler.List)
		companies.POST("", handler.Create)
		companies.GET("/:id", handler.Get)
		companies.PUT("/:id", handler.Update)
	}
}

// registerSettingsRoutes registers settings endpoints of the active company.
func registerSettingsRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCompanyHandler(base, cfg.CompanyService, cfg.AuthService)

	settings := rg.Group("/settings")
	{
		settings.GET("", handler.GetSettings)
		settings.PUT("", handler.UpdateSettings)
		settings.GET("/number-format/:entityType", handler.GetNumberFormat)
		settings.PUT("/number-format/:entityType", handler.SetNumberFormat)
	}
}

// registerCustomerRoutes registers customer catalog endpoints.
func registerCustomerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCustomerHandler(base, cfg.CustomerService)

	customers := rg.Group("/customers")
	{
		customers.GET("", handler.List)
		customers.POST("", handler.Create)
		customers.GET("/:id", handler.Get)
		customers.PUT("/:id", handler.Update)
		customers.DELETE("/:id", handler.Delete)
		customers.POST("/:id/deletion-mark", handler.SetDeletionMark)
	}
}

// registerDocumentRoutes registers invoice, estimate and payment endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	// --- INVOICES ---
	{
		handler := handlers.NewInvoiceHandler(base, cfg.InvoiceService)
		invoices := rg.Group("/invoices")

		invoices.GET("", handler.List)
		invoices.POST("", handler.Create)
		invoices.GET("/next-number", handler.NextNumber)
		invoices.GET("/:id", handler.Get)
		invoices.PUT("/:id", handler.Update)
		invoices.DELETE("/:id", handler.Delete)
		invoices.POST("/:id/send", handler.Send)
		invoices.POST("/:id/mark-viewed", handler.MarkViewed)
	}

	// --- ESTIMATES ---
	{
		handler := handlers.NewEstimateHandler(base, cfg.EstimateService)
		estimates := rg.Group("/estimates")

		estimates.GET("", handler.List)
		estimates.POST("", handler.Create)
		estimates.GET("/next-number", handler.NextNumber)
		estimates.GET("/:id", handler.Get)
		estimates.PUT("/:id", handler.Update)
		estimates.DELETE("/:id", handler.Delete)
		estimates.POST("/:id/send", handler.Send)
		estimates.POST("/:id/accept", handler.Accept)
		estimates.POST("/:id/reject", handler.Reject)
		estimates.POST("/:id/convert", handler.Convert)
	}

	// --- PAYMENTS ---
	{
		handler := handlers.NewPaymentHandler(base, cfg.PaymentService)
		payments := rg.Group("/payments")

		payments.GET("", handler.List)
		payments.POST("", handler.Create)
		payments.GET("/next-number", handler.NextNumber)
		payments.GET("/:id", handler.Get)
		payments.PUT("/:id", handler.Update)
		payments.DELETE("/:id", handler.Delete)
	}
}
