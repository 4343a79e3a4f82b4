package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bignash/datahub/docs"
	"github.com/bignash/datahub/internal/audit"
	"github.com/bignash/datahub/internal/config"
	"github.com/bignash/datahub/internal/database"
	"github.com/bignash/datahub/internal/handlers"
	mW "github.com/bignash/datahub/internal/middleware"
	"github.com/bignash/datahub/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title DataHub Wallet API
// @version 1.0
// @description Wallet deposits and data bundle orders with settlement against Paystack and Hubnet
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	config.BindEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	cfg := config.Load()
	if cfg.Paystack.SecretKey == "" {
		log.Println("Warning: PAYSTACK_SECRET_KEY is not set, deposits and webhooks will fail")
	}
	if cfg.Hubnet.WebhookToken == "" {
		log.Println("Warning: HUBNET_WEBHOOK_TOKEN is not set, Hubnet callbacks are accepted unauthenticated")
	}
	if cfg.JWT.SecretKey == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "DataHub Wallet API"
	docs.SwaggerInfo.Description = "Wallet deposits and data bundle orders"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize storage
	db := database.InitDatabase()
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	cancelMigrate()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	auditLogger := audit.NewAuditLogger(redisClient)
	ledger := services.NewLedgerService(db)
	gateway := services.NewPaystackClient(cfg.Paystack)
	provider := services.NewHubnetClient(cfg.Hubnet)

	depositService := services.NewDepositService(ledger, gateway, auditLogger, redisClient, cfg)
	orderService := services.NewOrderService(ledger, services.DefaultCatalog(), provider, auditLogger, cfg)
	qrService := services.NewQRService(redisClient)

	walletHandler := handlers.NewWalletHandler(depositService, ledger, qrService)
	orderHandler := handlers.NewOrderHandler(orderService)
	webhookHandler := handlers.NewWebhookHandler(depositService, orderService, cfg.Hubnet.WebhookToken)
	adminHandler := handlers.NewAdminHandler(orderService, depositService)

	authMiddleware := mW.NewAuthMiddleware(cfg.JWT.SecretKey, redisClient)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Callbacks authenticate by signature or shared token
		r.Post("/paystack/webhook", webhookHandler.Paystack)
		r.Post("/webhooks/hubnet", webhookHandler.Hubnet)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/wallet/add-funds", walletHandler.AddFunds)
			r.Get("/wallet/verify-payment", walletHandler.VerifyPayment)
			r.Get("/wallet/balance", walletHandler.Balance)
			r.Get("/wallet/transactions", walletHandler.Transactions)
			r.Get("/wallet/checkout-qr/{reference}", walletHandler.CheckoutQR)

			r.Post("/orders", orderHandler.PlaceOrder)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{reference}", orderHandler.GetOrder)

			r.With(mW.RequireRole(mW.RoleAdmin, mW.RoleAgent)).
				Post("/admin/orders/{reference}/fail", adminHandler.FailOrder)
			r.With(mW.RequireRole(mW.RoleAdmin)).
				Post("/admin/accounts/{accountId}/credit", adminHandler.CreditWallet)
		})
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
