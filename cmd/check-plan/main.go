package main

import (
	"context"
	"log"
	"time"

	"github.com/wekeepgrowing/shop-stripe/internal/config"
	stripeprovider "github.com/wekeepgrowing/shop-stripe/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/shop-stripe/internal/usecase"
	"github.com/wekeepgrowing/shop-stripe/pkg/logger"
	"go.uber.org/zap"
)

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

	if cfg.Stripe.SubscriptionPlan == "" {
		zapLogger.Info("No subscription plan configured, checkout will only charge")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway := stripeprovider.NewStripeProvider(cfg.Stripe, zapLogger)
	planCheck := usecase.NewPlanCheckService(gateway, zapLogger)

	if _, err := planCheck.Verify(ctx, cfg.Stripe.SubscriptionPlan); err != nil {
		zapLogger.Fatal("Subscription plan check failed",
			zap.String("plan_id", cfg.Stripe.SubscriptionPlan),
			zap.Error(err))
	}
}
