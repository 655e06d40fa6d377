package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/shop-stripe/internal/adapter/handler/http"
	"github.com/wekeepgrowing/shop-stripe/internal/config"
	"github.com/wekeepgrowing/shop-stripe/internal/middleware/auth"
	"github.com/wekeepgrowing/shop-stripe/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	checkout handlers.CheckoutUsecase
	orders   handlers.OrderUsecase
}

func NewServer(cfg *config.Config, log *zap.Logger, checkout handlers.CheckoutUsecase, orders handlers.OrderUsecase) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	if cfg.Service.ClientURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.Service.ClientURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost},
		}))
	}

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		checkout: checkout,
		orders:   orders,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "shop",
		})
	})

	checkoutHandler := handlers.NewCheckoutHandler(s.checkout, s.logger)
	orderHandler := handlers.NewOrderHandler(s.orders, s.logger)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}

	shop := s.echo.Group("/api/v1/shop", auth.JWTMiddleware(jwtConfig))

	stripe := shop.Group("/stripe")
	stripe.POST("/save-token", checkoutHandler.SaveToken)
	stripe.POST("/charge", checkoutHandler.Charge)
	stripe.POST("/payment-request", checkoutHandler.PaymentRequest)

	orders := shop.Group("/orders")
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/:number", orderHandler.GetOrder)
	orders.POST("/:number/acknowledge-payment", orderHandler.AcknowledgePayment)
}
