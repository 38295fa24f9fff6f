package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartshop/internal/cart"
	"smartshop/internal/catalog"
	"smartshop/internal/config"
	"smartshop/internal/events"
	"smartshop/internal/handlers"
	"smartshop/internal/history"
	"smartshop/internal/imageloader"
	"smartshop/internal/kvstore"
	"smartshop/pkg/logger"
	"smartshop/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "smartshop/docs" // Import docs for Swagger
)

// @title           SmartShop API
// @version         1.0
// @description     Catalog browsing, search and filtering, shopping cart and search history for the SmartShop app.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8082
// @BasePath  /api/v1

// @schemes   http https
func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting SmartShop API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("catalog_url", cfg.CatalogBaseURL),
		zap.Int("page_size", cfg.CatalogPageSize),
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Key-value store (search history, idempotency records)
	appLogger.Info("🔧 Initializing key-value store...", zap.String("backend", cfg.KVBackend))
	kv, err := kvstore.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open key-value store", zap.Error(err))
	}
	defer kv.Close()
	appLogger.Info("✅ Key-value store initialized successfully")

	// Catalog client with optional response cache
	httpClient := &http.Client{Timeout: cfg.CatalogTimeout}
	catalogOpts := []catalog.Option{catalog.WithHTTPClient(httpClient)}
	if cfg.UseCache {
		cacheStore := kv
		if cfg.KVBackend != config.KVBackendRedis {
			appLogger.Info("Initializing cache (Redis)", zap.String("addr", cfg.RedisAddr()))
			cacheStore = kvstore.NewRedisStore(cfg, appLogger)
			defer cacheStore.Close()
		}
		catalogOpts = append(catalogOpts, catalog.WithCache(cacheStore, kvstore.TTL(cfg.CacheTTL)))
		appLogger.Info("Catalog cache enabled", zap.Int("ttl_seconds", cfg.CacheTTL))
	} else {
		appLogger.Info("Cache disabled (USE_CACHE=false)")
	}

	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogPageSize, appLogger, catalogOpts...)
	if err != nil {
		appLogger.Fatal("Failed to create catalog client", zap.Error(err))
	}

	appLogger.Info("🔧 Loading cart...", zap.String("path", cfg.CartPath()))
	cartStore := cart.NewStore(cfg.CartPath(), appLogger)
	appLogger.Info("✅ Cart loaded", zap.Int("items", cartStore.Len()))

	historyStore := history.NewStore(kv, appLogger)

	// Activity events
	var publisher events.EventPublisher
	eventsMode := "in-memory"
	if cfg.UseKafka {
		appLogger.Info("📡 Kafka Configuration",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic_cart", cfg.KafkaTopicCart),
			zap.String("topic_search", cfg.KafkaTopicSearch),
			zap.String("client_id", cfg.KafkaClientID),
			zap.String("acks", cfg.KafkaAcks),
			zap.Int("retries", cfg.KafkaRetries),
		)
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Warn("⚠️ Kafka unavailable, using in-memory event publisher", zap.Error(err))
			publisher = events.NewInMemoryEventPublisher(appLogger)
		} else {
			publisher = kafkaPublisher
			eventsMode = "kafka"
		}
	} else {
		publisher = events.NewInMemoryEventPublisher(appLogger)
	}
	defer publisher.Close()

	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(logger.GinMiddleware(appLogger))

	requestIDStore := middleware.NewKVRequestIDStore(kv)
	router.Use(middleware.IdempotencyMiddleware(requestIDStore, appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.Use(middleware.StoreResponseMiddleware(requestIDStore, appLogger, cfg.IdempotencyTTL))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	catalogHandler := handlers.NewCatalogHandler(catalogClient, historyStore, publisher, appLogger)
	cartHandler := handlers.NewCartHandler(cartStore, publisher, appLogger)
	historyHandler := handlers.NewHistoryHandler(historyStore)
	imageLoader := imageloader.NewLoader(httpClient, appLogger,
		imageloader.WithAllowedHosts(cfg.ImageAllowedHosts...),
		imageloader.WithMaxBytes(cfg.ImageMaxBytes),
	)
	imageHandler := handlers.NewImageHandler(imageLoader)
	monitoringHandler := handlers.NewMonitoringHandler(catalogClient, cartStore, historyStore, cfg.KVBackend, eventsMode)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/more", catalogHandler.LoadMoreProducts)
			products.GET("/search", catalogHandler.SearchProducts)
			products.GET("/filter", catalogHandler.FilterProducts)
			products.GET("/categories", catalogHandler.ListCategories)
			products.GET("/:id/share", catalogHandler.ShareProduct)
		}

		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", cartHandler.GetCart)
			cartRoutes.PUT("", cartHandler.ReplaceCart)
			cartRoutes.DELETE("", cartHandler.ClearCart)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.DELETE("/items/:index", cartHandler.RemoveItem)
			cartRoutes.GET("/share", cartHandler.ShareCart)
		}

		v1.GET("/search/history", historyHandler.GetHistory)
		v1.GET("/images", imageHandler.GetImage)
		v1.GET("/monitoring/stats", monitoringHandler.GetStats)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// healthCheck godoc
// @Summary      Health check endpoint
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "smartshop",
	})
}
