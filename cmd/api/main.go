package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "payments_adapter/docs"
	"payments_adapter/internal/adapter/http/handlers"
	"payments_adapter/internal/adapter/http/routes"
	"payments_adapter/internal/config"
	"payments_adapter/internal/infrastructure/payments"
	"payments_adapter/internal/usecase"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

// @title           Order Adapter API
// @version         1.0
// @description     Creates and captures payment orders against the configured payment provider.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[order][main] invalid configuration: %v", err)
	}
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.ProviderTimeout)
	gateway, err := payments.NewGateway(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("[order][main] payment gateway not configured provider=%s: %v", cfg.Provider, err)
	}

	orderUseCase := usecase.NewOrderUseCase(gateway, cfg.ProviderTimeout)

	router := routes.NewRouter(routes.Dependencies{
		FrontendOrigin: cfg.FrontendOrigin,
		OrderHandler:   handlers.NewOrderHandler(orderUseCase),
		HealthHandler:  handlers.NewHealthHandler(cfg.Provider),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[order][main] starting http server addr=%s provider=%s frontend_origin=%s", cfg.Addr(), cfg.Provider, cfg.FrontendOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Printf("[order][main] received signal %s, shutting down", sig)
	case err := <-serverErr:
		log.Printf("[order][main] server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[order][main] graceful shutdown failed: %v", err)
	} else {
		log.Printf("[order][main] server stopped")
	}
}
