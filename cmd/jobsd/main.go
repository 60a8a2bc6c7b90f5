package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/maxcascerceri/jobs/internal/adapter/http"
	"github.com/maxcascerceri/jobs/internal/adapter/sqlite"
	"github.com/maxcascerceri/jobs/internal/config"
	"github.com/maxcascerceri/jobs/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.Printf("starting jobsd on port %d", cfg.Port)
	log.Printf("store: %s", cfg.DBPath)

	// The store belongs to the scraper; this process only reads it. A
	// missing file is not fatal: listings degrade to empty results
	// until ingestion has run and the process is restarted.
	if _, err := os.Stat(cfg.DBPath); err != nil {
		log.Printf("warning: store not found at %s, serving empty results", cfg.DBPath)
	}

	repo := sqlite.Open(cfg.DBPath, cfg.QueryTimeout)
	defer repo.Close()

	svc := domain.NewListingService(repo)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := httpAdapter.NewServer(svc, addr, cfg.CORSOrigins)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	sig := <-sigCh
	log.Printf("received signal %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("shutdown complete")
}
