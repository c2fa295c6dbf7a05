/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the loan schedule HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment, then apply command-line flags
  2. Initialize store (SQLite with migrations, or in-memory)
  3. Initialize cache (Redis when configured, in-memory otherwise)
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (override environment):
  -port       HTTP server port (PORT, default: 8080)
  -db         SQLite database path (DB_PATH, default: schedules.db)
              Use ":memory:" for in-memory SQLite, "" for the map store
  -redis      Redis address (REDIS_ADDR, default: in-memory cache)
  -log-level  Log level (LOG_LEVEL, default: info)

ENVIRONMENT ONLY:
  CACHE_TTL, DEFAULT_PRECISION, DEFAULT_SCALE, MAX_PERIODS, CORS_ORIGINS

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close cache and database connections
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/warp/loan-schedule/api"
	"github.com/warp/loan-schedule/cache"
	"github.com/warp/loan-schedule/config"
	"github.com/warp/loan-schedule/loan"
	"github.com/warp/loan-schedule/loan/store"
	"github.com/warp/loan-schedule/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address (empty: in-memory cache)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.ConfigureLogging()

	// Initialize store
	var scheduleStore loan.Store
	if cfg.DBPath == "" {
		log.Warn("No database path; saved schedules are lost on exit")
		scheduleStore = store.NewMemory()
	} else {
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		scheduleStore = db
	}

	// Initialize cache
	var scheduleCache cache.Cache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL)
		defer rc.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.WithError(err).Warn("Redis unreachable; cache reads will miss until it is back")
		}
		cancel()
		scheduleCache = rc
	} else {
		scheduleCache = cache.NewMemory(cfg.CacheTTL)
	}

	// Initialize handler
	handler := api.NewHandler(scheduleStore, scheduleCache)
	handler.DefaultPrecision = int32(cfg.DefaultPrecision)
	handler.DefaultScale = int32(cfg.DefaultScale)
	handler.MaxPeriods = cfg.MaxPeriods

	origins := []string{"http://localhost:5173", "http://localhost:8080"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	router := api.NewRouter(handler, origins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(log.Fields{
			"port":  cfg.Port,
			"db":    cfg.DBPath,
			"redis": cfg.RedisAddr,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
