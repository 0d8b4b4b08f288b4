/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the income engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Load external bonus catalogs (optional directory of JSON files)
  4. Start the snapshot scheduler
  5. Start server with graceful shutdown

CONFIGURATION:
  -port      HTTP server port (default: 8080, env PORT)
  -db        SQLite database path (default: income.db, env DATABASE_PATH)
             Use ":memory:" for an in-memory database
  -catalogs  Directory of country catalog JSON files (env CATALOG_DIR)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/centavo/income-engine/api"
	"github.com/centavo/income-engine/factory"
	"github.com/centavo/income-engine/store/sqlite"
)

func main() {
	// .env first, flags override
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "income.db"), "SQLite database path")
	catalogDir := flag.String("catalogs", envStr("CATALOG_DIR", ""), "directory of bonus catalog JSON files")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Optional external catalogs override the built-ins
	if *catalogDir != "" {
		if err := loadCatalogs(*catalogDir); err != nil {
			log.Fatalf("Failed to load bonus catalogs: %v", err)
		}
	}

	// Handler and router
	handler := api.NewHandler(store)
	handler.Snapshots = store
	router := api.NewRouter(handler)

	// Nightly snapshot refresh, primed once at startup
	scheduler := api.NewSnapshotScheduler(store)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()
	go scheduler.RefreshAll(context.Background())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Income engine listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func loadCatalogs(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		catalog, err := factory.ParseCatalog(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		factory.RegisterCatalog(catalog)
		log.Printf("registered bonus catalog %q (%d bonuses)", catalog.Country, len(catalog.Definitions))
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
