package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripay/config"
	"tripay/cron"
	"tripay/database"
	invoiceRepoPkg "tripay/database/repository/invoice"
	merchantRepoPkg "tripay/database/repository/merchant"
	productRepoPkg "tripay/database/repository/product"
	reviewRepoPkg "tripay/database/repository/review"
	userRepoPkg "tripay/database/repository/user"
	"tripay/handlers"
	"tripay/middleware"
	"tripay/routes"
	"tripay/services/exchange"
	"tripay/services/payment"
	"tripay/services/user"
	"tripay/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	invoiceRepo := invoiceRepoPkg.NewMongoInvoiceRepo()
	productRepo := productRepoPkg.NewMongoProductRepo()
	merchantRepo := merchantRepoPkg.NewMongoMerchantRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// collaborators.
	converter := exchange.NewRateAPIConverter(
		config.AppConfig.ExchangeRateURL,
		config.AppConfig.FallbackRateMYR,
		logger,
	)
	gateway := payment.NewPayPalGateway(payment.GatewayConfig{
		ClientID: config.AppConfig.PayPalClientID,
		Secret:   config.AppConfig.PayPalSecret,
		BaseURL:  config.AppConfig.PayPalEndpoint,
	}, logger)

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}
	invoiceService := &payment.DefaultInvoiceService{
		InvoiceRepo:  invoiceRepo,
		ProductRepo:  productRepo,
		MerchantRepo: merchantRepo,
		ReviewRepo:   reviewRepo,
		Gateway:      gateway,
		Converter:    converter,
		Logger:       logger,
		CheckoutURL:  config.AppConfig.CheckoutURL,
		BrandName:    config.AppConfig.BrandName,
		FEHost:       config.AppConfig.FEHost,
		ResolveHost:  utils.ResolveHost,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Auth:     handlers.NewAuthHandler(userService),
		Payment:  handlers.NewPaymentHandler(invoiceService, logger),
		Customer: handlers.NewCustomerHandler(invoiceService, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background expiry sweep and health monitoring.
	cron.InitExpirySweepWorker(invoiceRepo, gateway, logger)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	})
	utils.StartHealthMonitor(redisClient, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
