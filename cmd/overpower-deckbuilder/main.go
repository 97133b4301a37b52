// Package main runs the Overpower deck builder: a local REST API over the
// card catalog, the saved-deck store, and the legality and probability
// engines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/overpower-tools/deckbuilder/internal/api"
	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/config"
	"github.com/overpower-tools/deckbuilder/internal/rules"
	"github.com/overpower-tools/deckbuilder/internal/storage"
	"github.com/overpower-tools/deckbuilder/internal/watch"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	dbPath      = flag.String("db-path", "", "Database path (default: ~/.overpower-deckbuilder/data.db)")
	catalogPath = flag.String("catalog", "", "Catalog JSON dump to load (overrides config)")
	configFile  = flag.String("config", "", "Config file path (default: ~/.overpower-deckbuilder/config.toml)")
	debug       = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if cfg.App.DebugMode {
		rules.Debug = true
	}

	finalDBPath := cfg.Database.Path
	if finalDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		finalDBPath = filepath.Join(home, ".overpower-deckbuilder", "data.db")
	}

	dbConfig := storage.DefaultConfig(finalDBPath)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	service := storage.NewService(db)
	ctx := context.Background()

	store, err := loadCatalog(ctx, service, cfg.Catalog.FilePath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog ready: %d cards", store.Len())

	// Watch the catalog dump for edits while the server runs.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Catalog.Watch && cfg.Catalog.FilePath != "" {
		watcher, err := watch.NewCatalogWatcher(cfg.Catalog.FilePath, store)
		if err != nil {
			log.Printf("Catalog watching disabled: %v", err)
		} else {
			go watcher.Run(watchCtx)
		}
	}

	server := api.NewServer(&api.Config{
		Port:           cfg.API.Port,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
	}, service, store)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
	fmt.Printf("Deck builder running at http://localhost:%d\n", server.Port())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	if *configFile != "" {
		return config.LoadFrom(*configFile)
	}
	return config.Load()
}

// applyFlags lets command-line flags override the persisted config.
func applyFlags(cfg *config.Config) {
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *catalogPath != "" {
		cfg.Catalog.FilePath = *catalogPath
	}
	if *debug {
		cfg.App.DebugMode = true
	}
}

// loadCatalog hydrates the in-memory catalog. When a catalog file is
// configured it is loaded and persisted as the new catalog of record;
// otherwise the previously persisted catalog is used.
func loadCatalog(ctx context.Context, service *storage.Service, filePath string) (*catalog.Store, error) {
	if filePath == "" {
		return service.LoadCatalog(ctx)
	}

	cards, err := catalog.LoadFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := service.ReplaceCatalog(ctx, cards); err != nil {
		return nil, err
	}

	store := catalog.NewStore()
	store.ReplaceAll(cards)
	return store, nil
}
