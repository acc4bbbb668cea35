package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/snapvault/internal/api"
	"github.com/rohits-web03/snapvault/internal/config"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// @title SnapVault API
// @version 1.0
// @description Disposable-camera event photo sharing: per-guest quotas, delayed reveal.
// @BasePath /
func main() {
	// Connect to database
	repositories.ConnectDatabase()

	// Object storage is optional; without it photos stay inline only.
	r2 := config.Envs.R2
	if r2.AccountID != "" && r2.AccessKeyID != "" {
		if err := repositories.InitMedia(r2.AccessKeyID, r2.SecretAccessKey, r2.AccountID, r2.BucketName, r2.Region); err != nil {
			log.Fatalf("Could not initialize media storage: %v", err)
		}
	} else {
		log.Println("Media storage not configured, serving inline payloads only")
	}

	mux := api.SetupRouter()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting SnapVault server on port: %s", config.Envs.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server closed")
}
