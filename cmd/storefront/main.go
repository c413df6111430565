package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/palmbay/storefront/internal/cart/application"
	cartdomain "github.com/palmbay/storefront/internal/cart/domain"
	cartmessaging "github.com/palmbay/storefront/internal/cart/infrastructure/messaging"
	cartmysql "github.com/palmbay/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/palmbay/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/palmbay/storefront/internal/catalog/application"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	catalogmessaging "github.com/palmbay/storefront/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/palmbay/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/palmbay/storefront/internal/catalog/interfaces/http"
	identityapp "github.com/palmbay/storefront/internal/identity/application"
	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
	identitymysql "github.com/palmbay/storefront/internal/identity/infrastructure/persistence/mysql"
	identityhttp "github.com/palmbay/storefront/internal/identity/interfaces/http"
	orderapp "github.com/palmbay/storefront/internal/order/application"
	orderdomain "github.com/palmbay/storefront/internal/order/domain"
	ordermessaging "github.com/palmbay/storefront/internal/order/infrastructure/messaging"
	ordermysql "github.com/palmbay/storefront/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/palmbay/storefront/internal/order/interfaces/http"
	wishlistapp "github.com/palmbay/storefront/internal/wishlist/application"
	wishlistdomain "github.com/palmbay/storefront/internal/wishlist/domain"
	wishlistmysql "github.com/palmbay/storefront/internal/wishlist/infrastructure/persistence/mysql"
	wishlisthttp "github.com/palmbay/storefront/internal/wishlist/interfaces/http"
	"github.com/palmbay/storefront/pkg/cache"
	"github.com/palmbay/storefront/pkg/config"
	"github.com/palmbay/storefront/pkg/db"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/metrics"
	"github.com/palmbay/storefront/pkg/middleware"
	"github.com/palmbay/storefront/pkg/mq"
	"github.com/palmbay/storefront/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Error(ctx, "failed to register metrics", "error", err)
		os.Exit(1)
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Error(ctx, "failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		err := database.AutoMigrate(
			&identitydomain.User{},
			&catalogdomain.Product{},
			&cartdomain.CartLine{},
			&orderdomain.Order{},
			&orderdomain.OrderItem{},
			&wishlistdomain.WishlistItem{},
		)
		if err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxPoolSize: cfg.Redis.MaxPoolSize,
		ConnTimeout: cfg.Redis.ConnTimeout,
	})
	if err != nil {
		logger.Error(ctx, "failed to init redis", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// 6. Kafka，未启用时事件发布为空实现
	catalogPublisher := catalogmessaging.NewNoopPublisher()
	cartPublisher := cartmessaging.NewNoopPublisher()
	orderPublisher := ordermessaging.NewNoopPublisher()
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			GroupID:      cfg.Kafka.GroupID,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Error(ctx, "failed to init kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		catalogPublisher = catalogmessaging.NewKafkaPublisher(producer)
		cartPublisher = cartmessaging.NewKafkaPublisher(producer)
		orderPublisher = ordermessaging.NewKafkaPublisher(producer)
	}

	// 7. 仓储
	userRepo := identitymysql.NewUserRepository(database.DB)
	productRepo := catalogmysql.NewProductRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	wishlistRepo := wishlistmysql.NewWishlistRepository(database.DB)

	// 8. 应用服务
	authService := identityapp.NewAuthService(userRepo, identityapp.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	resolver := identityapp.NewResolver(authService)
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo, redisCache)
	inventory := catalogapp.NewInventoryLedger(productRepo, catalogPublisher, m)
	inventory.SetCacheInvalidator(catalogQuery)
	cartCommands := cartapp.NewCartCommandService(cartRepo, productRepo, cartPublisher, m)
	cartQuery := cartapp.NewCartQueryService(cartRepo, productRepo)
	orderCommands := orderapp.NewOrderCommandService(orderRepo, cartRepo, productRepo, inventory, orderPublisher, m)
	orderQuery := orderapp.NewOrderQueryService(orderRepo)
	wishlistService := wishlistapp.NewWishlistService(wishlistRepo, productRepo)

	// 9. HTTP 接口层
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
	)
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisRateLimiter(redisCache.Client())
		router.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimit))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.ServiceName,
			"version": cfg.Version,
		})
	})

	api := router.Group("/api/v1")
	api.Use(identityhttp.IdentityMiddleware(resolver))

	identityhttp.NewAuthHandler(authService).RegisterRoutes(api)
	cataloghttp.NewCatalogHandler(catalogQuery).RegisterRoutes(api)
	carthttp.NewCartHandler(cartCommands, cartQuery).RegisterRoutes(api)
	orderhttp.NewOrderHandler(orderCommands, orderQuery).RegisterRoutes(api)
	wishlisthttp.NewWishlistHandler(wishlistService).RegisterRoutes(api)

	// 10. 启动
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			logger.Info(ctx, "metrics server starting", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			return metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
		})
	}

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
