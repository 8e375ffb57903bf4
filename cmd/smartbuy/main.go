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
	cartapp "github.com/wyfcoding/smartbuy/internal/cart/application"
	cartdomain "github.com/wyfcoding/smartbuy/internal/cart/domain"
	cartmysql "github.com/wyfcoding/smartbuy/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/smartbuy/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/smartbuy/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/smartbuy/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/smartbuy/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/smartbuy/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/smartbuy/internal/order/application"
	orderdomain "github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/smartbuy/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/smartbuy/internal/order/interfaces/http"
	reportapp "github.com/wyfcoding/smartbuy/internal/report/application"
	reporthttp "github.com/wyfcoding/smartbuy/internal/report/interfaces/http"
	"github.com/wyfcoding/smartbuy/pkg/config"
	"github.com/wyfcoding/smartbuy/pkg/db"
	"github.com/wyfcoding/smartbuy/pkg/logger"
	"github.com/wyfcoding/smartbuy/pkg/metrics"
	"github.com/wyfcoding/smartbuy/pkg/middleware"
	"github.com/wyfcoding/smartbuy/pkg/mq"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

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
	logger.Info(ctx, "starting service", "service", cfg.ServiceName, "environment", cfg.Environment)

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "failed to start metrics server", "error", err)
		}
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init database", "error", err)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(
			&catalogdomain.Product{},
			&cartdomain.CartItem{},
			&orderdomain.Order{},
			&orderdomain.OrderItem{},
		); err != nil {
			logger.Fatal(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. 消息队列
	var publisher orderdomain.EventPublisher
	var producer *mq.KafkaProducer
	if cfg.Kafka.Enabled {
		producer, err = mq.NewProducer(mq.KafkaConfig{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			logger.Fatal(ctx, "failed to init kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer)
	} else {
		publisher = messaging.NewNopEventPublisher()
	}

	// 6. 仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	inventoryRepo := catalogmysql.NewInventoryRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)

	// 7. 应用服务
	catalogSvc := catalogapp.NewCatalogService(productRepo, inventoryRepo)
	cartSvc := cartapp.NewCartService(cartRepo, productRepo)
	orderSvc := orderapp.NewOrderService(orderRepo, cartRepo, inventoryRepo, publisher, m)
	reportSvc := reportapp.NewReportService(orderRepo, productRepo)

	// 8. HTTP 接口
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinCORSMiddleware(),
	)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cataloghttp.NewCatalogHandler(catalogSvc).RegisterRoutes(router)
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(router)
	orderhttp.NewOrderHandler(orderSvc).RegisterRoutes(router)
	reporthttp.NewReportHandler(reportSvc).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 9. 启动与优雅退出
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info(gctx, "shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "service exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "service stopped")
}
