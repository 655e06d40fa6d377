package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wekeepgrowing/shop-stripe/internal/config"
	"github.com/wekeepgrowing/shop-stripe/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/shop-stripe/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/shop-stripe/internal/infrastructure/http"
	stripeprovider "github.com/wekeepgrowing/shop-stripe/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/shop-stripe/internal/usecase"
	"github.com/wekeepgrowing/shop-stripe/pkg/logger"
	"github.com/wekeepgrowing/shop-stripe/pkg/messaging"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db)

	// Order events
	var publisher messaging.RedisClient = messaging.NopClient{}
	if cfg.Redis.Addr != "" {
		publisher, err = messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		zapLogger.Info("Redis not configured, order events are not published")
	}
	defer publisher.Close()

	// Initialize usecases
	gateway := stripeprovider.NewStripeProvider(cfg.Stripe, zapLogger)
	checkoutService := usecase.NewCheckoutService(
		repos.Cart,
		repos.Order,
		repos.User,
		repos.CustomerMapping,
		gateway,
		publisher,
		usecase.CheckoutConfig{
			PurchaseDescription: cfg.Stripe.PurchaseDescription,
			SubscriptionPlan:    cfg.Stripe.SubscriptionPlan,
			ThankYouURL:         cfg.Service.ThankYouURL,
			EventChannel:        cfg.Redis.Channel,
		},
		zapLogger,
	)
	orderService := usecase.NewOrderService(repos.Order, repos.User, publisher, cfg.Redis.Channel, zapLogger)

	// Initialize servers
	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, checkoutService, orderService)

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
