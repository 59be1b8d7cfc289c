package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/duckretail/insights/internal/api"
	"github.com/duckretail/insights/internal/api/handlers"
	"github.com/duckretail/insights/internal/priceindex"
	"github.com/duckretail/insights/internal/promo"
	"github.com/duckretail/insights/internal/quality"
	"github.com/duckretail/insights/internal/scheduler"
	"github.com/duckretail/insights/internal/scheduler/jobs"
	"github.com/duckretail/insights/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Loads the dataset from the configured source, then serves reports.

Endpoints:
  GET  /health               - Health check
  GET  /api/dataset          - Dataset overview and issue summary
  POST /api/dataset/refresh  - Reload the dataset
  GET  /api/quality          - Data quality report
  GET  /api/promotions       - Promotion summary
  GET  /api/price-index      - Competitive price index

Example:
  go run ./cmd/insights api
  go run ./cmd/insights api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port":   a.cfg.Port,
		"source": a.cfg.Data.Source,
	}).Info("Initializing API server")

	// Load the first snapshot before accepting traffic.
	if err := a.loadSnapshot(cmd.Context()); err != nil {
		return err
	}

	// Redis report cache (no-op when disabled)
	redisClient, err := redis.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "insights")
	ttl := a.cfg.Redis.CacheTTL

	// Analyzers
	qualityAnalyzer := quality.New(a.engine.Quality, a.log)
	promoDetector := promo.New(a.engine.Promotions, a.log)
	priceEngine := priceindex.New(a.engine.Pricing, a.log)

	// Handlers
	datasetHandler := handlers.NewDatasetHandler(a.store, a.engineHash, a.log)
	qualityHandler := handlers.NewQualityHandler(a.store, qualityAnalyzer, cache, ttl, a.engineHash, a.log)
	promoHandler := handlers.NewPromoHandler(a.store, promoDetector, cache, ttl, a.engineHash, a.log)
	priceHandler := handlers.NewPriceHandler(a.store, priceEngine, cache, ttl, a.engineHash, a.cfg.TargetSupplier, a.log)

	// Router and server
	router := api.NewRouter(datasetHandler, qualityHandler, promoHandler, priceHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	// Scheduled refresh
	var sched *scheduler.Scheduler
	if a.cfg.Refresh.Enabled {
		sched = scheduler.New(a.log)
		job := jobs.NewDatasetRefresh(a.store, a.cfg.Refresh.Schedule, a.log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule dataset refresh: %w", err)
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	a.log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
