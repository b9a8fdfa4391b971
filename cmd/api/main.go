// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/config"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/catalog"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/dispatch"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/pricing"
	"github.com/your-org/grocery-backend/internal/interfaces/http"
	"github.com/your-org/grocery-backend/internal/interfaces/http/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting application")

	// Core services, constructed once per process lifetime. All state is
	// in memory and is gone when the process exits.
	catalogService := catalog.NewService()
	pricingEngine := pricing.NewEngine(cfg.Pricing.DeliveryFee, cfg.Pricing.Promotions)
	cartService := cart.NewService(pricingEngine, logger)
	orderService := order.NewService(order.NewRandomSource(), logger)
	simulator := dispatch.NewSimulator(orderService, cfg.Simulator.StepInterval, logger)
	checkoutService := checkout.NewService(cartService, orderService, simulator, logger)

	if !cfg.Simulator.Enabled {
		// With the simulator off, orders stay pending until a status is
		// pushed through the API.
		simulator.Stop()
		logger.Warn("Order progress simulator disabled")
	}

	// Create and start HTTP server
	server := http.NewServer(cfg, logger, routes.Services{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	// Cancel pending dispatch transitions before stopping the server
	simulator.Stop()

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("Server shutdown completed")
}

// newLogger configures logrus from the logging config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
