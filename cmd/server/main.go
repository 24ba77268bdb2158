// Package main is the entry point for the Facture API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"facture/internal/domain"
	"facture/internal/domain/auth"
	"facture/internal/domain/catalogs/customer"
	"facture/internal/domain/company"
	"facture/internal/domain/documents"
	"facture/internal/domain/documents/estimate"
	"facture/internal/domain/documents/invoice"
	"facture/internal/domain/documents/payment"
	v1 "facture/internal/infrastructure/http/v1"
	"facture/internal/infrastructure/storage/postgres"
	"facture/internal/infrastructure/storage/postgres/auth_repo"
	"facture/internal/infrastructure/storage/postgres/catalog_repo"
	"facture/internal/infrastructure/storage/postgres/document_repo"
	"facture/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting facture server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Auth ---
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Company + settings ---
	settingsService := company.NewSettingsService(postgres.NewSettingsRepo(txManager))
	companyService := company.NewService(postgres.NewCompanyRepo(txManager), settingsService, txManager)

	// --- Customers ---
	customerService := customer.NewService(catalog_repo.NewCustomerRepo(txManager), txManager)

	// --- Document numbering ---
	// Counters read the document tables themselves, customers supply the
	// series prefix, settings supply the per-company formats.
	numbering := documents.NewNumbering(
		document_repo.NewCounterRepo(txManager),
		customerService,
		settingsService,
	)

	// --- Documents ---
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	invoiceService := invoice.NewService(invoiceRepo, numbering, txManager)
	estimateService := estimate.NewService(document_repo.NewEstimateRepo(txManager), invoiceService, numbering, txManager)
	paymentService := payment.NewService(document_repo.NewPaymentRepo(txManager), invoiceRepo, numbering, txManager)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}
	registerAuditHooks(auditService, customerService, invoiceService, estimateService, paymentService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		CompanyService:  companyService,
		CustomerService: customerService,
		InvoiceService:  invoiceService,
		EstimateService: estimateService,
		PaymentService:  paymentService,
		Audit:           auditService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// registerAuditHooks records create, update and delete actions in the audit
// log. Documents run no after-delete hooks, so their removal is logged before
// the deletion mark is set.
func registerAuditHooks(
	audit *postgres.AuditService,
	customers *customer.Service,
	invoices *invoice.Service,
	estimates *estimate.Service,
	payments *payment.Service,
) {
	customers.Hooks().On(domain.AfterCreate, func(ctx context.Context, c *customer.Customer) error {
		return audit.LogChange(ctx, "customer", c.ID, postgres.AuditActionCreate, map[string]any{"name": c.Name})
	})
	customers.Hooks().On(domain.AfterUpdate, func(ctx context.Context, c *customer.Customer) error {
		return audit.LogChange(ctx, "customer", c.ID, postgres.AuditActionUpdate, map[string]any{"name": c.Name})
	})
	customers.Hooks().On(domain.AfterDelete, func(ctx context.Context, c *customer.Customer) error {
		return audit.LogChange(ctx, "customer", c.ID, postgres.AuditActionDelete, nil)
	})

	invoices.Hooks().On(domain.AfterCreate, func(ctx context.Context, doc *invoice.Invoice) error {
		return audit.LogChange(ctx, "invoice", doc.ID, postgres.AuditActionCreate,
			map[string]any{"number": doc.Number, "total": doc.Total})
	})
	invoices.Hooks().On(domain.AfterUpdate, func(ctx context.Context, doc *invoice.Invoice) error {
		return audit.LogChange(ctx, "invoice", doc.ID, postgres.AuditActionUpdate,
			map[string]any{"number": doc.Number, "total": doc.Total})
	})
	invoices.Hooks().On(domain.BeforeDelete, func(ctx context.Context, doc *invoice.Invoice) error {
		return audit.LogChange(ctx, "invoice", doc.ID, postgres.AuditActionDelete,
			map[string]any{"number": doc.Number})
	})

	estimates.Hooks().On(domain.AfterCreate, func(ctx context.Context, doc *estimate.Estimate) error {
		return audit.LogChange(ctx, "estimate", doc.ID, postgres.AuditActionCreate,
			map[string]any{"number": doc.Number, "total": doc.Total})
	})
	estimates.Hooks().On(domain.AfterUpdate, func(ctx context.Context, doc *estimate.Estimate) error {
		return audit.LogChange(ctx, "estimate", doc.ID, postgres.AuditActionUpdate,
			map[string]any{"number": doc.Number, "total": doc.Total})
	})
	estimates.Hooks().On(domain.BeforeDelete, func(ctx context.Context, doc *estimate.Estimate) error {
		return audit.LogChange(ctx, "estimate", doc.ID, postgres.AuditActionDelete,
			map[string]any{"number": doc.Number})
	})

	payments.Hooks().On(domain.AfterCreate, func(ctx context.Context, doc *payment.Payment) error {
		return audit.LogChange(ctx, "payment", doc.ID, postgres.AuditActionCreate,
			map[string]any{"number": doc.Number, "amount": doc.Amount})
	})
	payments.Hooks().On(domain.AfterUpdate, func(ctx context.Context, doc *payment.Payment) error {
		return audit.LogChange(ctx, "payment", doc.ID, postgres.AuditActionUpdate,
			map[string]any{"number": doc.Number, "amount": doc.Amount})
	})
	payments.Hooks().On(domain.BeforeDelete, func(ctx context.Context, doc *payment.Payment) error {
		return audit.LogChange(ctx, "payment", doc.ID, postgres.AuditActionDelete,
			map[string]any{"number": doc.Number})
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
