package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelichko/feedvault/app/api"
	"github.com/avelichko/feedvault/app/cfg"
	"github.com/avelichko/feedvault/app/database"
	"github.com/avelichko/feedvault/app/feed"
	"github.com/avelichko/feedvault/app/ingest"
	"github.com/avelichko/feedvault/app/sources"
	"github.com/avelichko/feedvault/app/sweep"
	"github.com/avelichko/feedvault/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	log.Printf("Starting FeedVault server (version %s)...", appCfg.Version)

	// Database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Printf("Connected to database successfully")

	if appCfg.AdminDBUser != "" {
		if err := db.OpenAdmin(appCfg.DBHost, appCfg.DBPort, appCfg.AdminDBUser,
			appCfg.AdminDBPassword, appCfg.DBName); err != nil {
			log.Printf("Warning: Failed to open privileged connection, batch writes fall back to standard role: %v", err)
		} else {
			log.Printf("Privileged write connection established")
		}
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database schema at version %d (dirty: %t)", version, dirty)

	// Initialize repositories
	sourceRepo := database.NewSourceRepository(db)
	itemRepo := database.NewItemRepository(db)
	interactionRepo := database.NewInteractionRepository(db)

	// Initialize core components
	fetchTimeout := time.Duration(appCfg.FetchTimeout) * time.Second

	var proxy feed.ProxyClient
	if appCfg.ProxyURL != "" {
		proxy = feed.NewHTTPProxyClient(appCfg.ProxyURL, appCfg.UserAgent, fetchTimeout)
		log.Printf("Proxy fallback enabled: %s", appCfg.ProxyURL)
	}

	var searcher feed.ChannelSearcher
	if appCfg.SearchURL != "" {
		searcher = feed.NewHTTPChannelSearcher(appCfg.SearchURL, appCfg.SearchAPIKey, fetchTimeout)
		log.Printf("Channel search enabled: %s", appCfg.SearchURL)
	}

	cache := feed.NewCache()
	fetcher := feed.NewFetcher(proxy, cache, fetchTimeout, appCfg.UserAgent, appCfg.FetchRate)
	resolver := feed.NewResolver(searcher)

	differ := ingest.NewDiffer(itemRepo)
	writer := ingest.NewWriter(itemRepo)
	ingestor := ingest.NewIngestor(sourceRepo, fetcher, differ, writer)
	sweeper := sweep.NewSweeper(itemRepo, interactionRepo)

	// Register seeded sources
	log.Printf("Loading source seeds from %s...", appCfg.SeedsDir)
	loader := sources.NewLoader(appCfg.SeedsDir)
	seeds, err := loader.LoadAll()
	if err != nil {
		log.Fatal("Failed to load source seeds:", err)
	}

	registerCtx, registerCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	registeredCount := 0
	seededCount := 0
	for file, seed := range seeds {
		for _, src := range seed.Sources {
			seededCount++

			descriptor, err := resolver.Resolve(registerCtx, src.URL)
			if err != nil {
				log.Printf("Warning: Failed to resolve source %q from %s: %v", src.URL, file, err)
				continue
			}

			id, err := sourceRepo.UpsertSource(seed.Owner, descriptor.Kind, descriptor.CanonicalURL, src.Title)
			if err != nil {
				log.Printf("Warning: Failed to register source %q from %s: %v", src.URL, file, err)
				continue
			}

			log.Printf("Registered source: %s (kind: %s, ID: %s)", descriptor.CanonicalURL, descriptor.Kind, id)
			registeredCount++
		}
	}
	registerCancel()
	log.Printf("Successfully registered %d/%d seeded sources", registeredCount, seededCount)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(sourceRepo, ingestor, sweeper)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(sourceRepo, itemRepo, interactionRepo, ingestor, sweeper, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("Endpoints available:")
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  List sources:  http://localhost:%s/api/sources?owner_id=<id> (requires API key)", appCfg.Port)
			log.Printf("  Sync source:   http://localhost:%s/api/sources/<id>/sync (POST, requires API key)", appCfg.Port)
			log.Printf("  Cleanup:       http://localhost:%s/api/cleanup (POST, requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("FeedVault server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("FeedVault server shutdown complete")
}
