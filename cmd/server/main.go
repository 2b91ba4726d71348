package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy-forecast-service/internal/adapters/primary/http/handlers"
	"energy-forecast-service/internal/adapters/primary/http/middleware"
	"energy-forecast-service/internal/adapters/secondary/blobstore"
	"energy-forecast-service/internal/adapters/secondary/parquet"
	"energy-forecast-service/internal/config"
	"energy-forecast-service/internal/core/services"
	"energy-forecast-service/internal/logging"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Init(cfg.Logger)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Blob store + codec)
	blobs, closeStore, err := blobstore.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("open blob store: %v", err)
	}
	defer closeStore()

	gateway := services.NewArtifactGateway(blobs, parquet.NewCodec())

	// Core Services (Application Layer)
	forecastSvc := services.NewForecastService(gateway, cfg.Storage.Bucket)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(forecastSvc, cfg.Project)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group(cfg.Server.BasePath)
	h.RegisterRoutes(api)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"bucket":  cfg.Storage.Bucket,
			"backend": cfg.Storage.Backend,
		}).Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
