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

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/api"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/bootstrap"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Ensure all log output goes to stdout so App Runner captures it in Application Logs
	log.SetOutput(os.Stdout)

	log.Printf("Planogram Service starting (GIT_SHA=%s BUILD_TIME=%s)", os.Getenv("GIT_SHA"), os.Getenv("BUILD_TIME"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	components, err := bootstrap.Build(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer components.Close()

	var sweeper *service.Sweeper
	if cfg.SweepInterval > 0 {
		sweeper = service.NewSweeper(components.Transitions, cfg.SweepInterval)
		sweeper.Start()
	}

	// Initialize handlers
	handler := api.NewHandler(components.Repo, components.Transitions, components.Assignments, api.Options{
		Exporter:        components.Exports,
		ExportPrefix:    cfg.ExportPrefix,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})

	// Set Gin mode based on environment
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}
	router := api.NewRouter(handler, api.RouterConfig{JWTSecret: cfg.JWTSecret, CORSOrigin: cfg.CORSOrigin})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Set up graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if sweeper != nil {
		sweeper.Stop()
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
