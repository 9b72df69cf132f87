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

	"github.com/jackc/pgx/v5/pgxpool"

	"agencydesk-backend/internal/api"
	"agencydesk-backend/internal/cache"
	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/handlers"
	"agencydesk-backend/internal/hero"
	"agencydesk-backend/internal/integrations"
	"agencydesk-backend/internal/jobs"
	"agencydesk-backend/internal/realtime"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/internal/storage"
	"agencydesk-backend/internal/store/postgres"
	"agencydesk-backend/internal/transcript"
)

func main() {
	log.Println("Starting AgencyDesk Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	// 3. Redis cache (settings read-through)
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to connect to Redis: %v", err)
	}
	defer redisCache.Close()
	log.Println("Redis cache connected.")

	// 4. Upload buckets
	fileStore, err := storage.NewStore(cfg.StorageRoot, storage.DefaultBuckets())
	if err != nil {
		log.Fatalf("FATAL: Unable to prepare storage buckets: %v", err)
	}
	log.Printf("Storage buckets ready under %s.", cfg.StorageRoot)

	// 5. Realtime hub and hero rotator
	hub := realtime.NewHub()
	rotator := hero.NewRotator(cfg.HeroHeadlines, cfg.RotationInterval)
	rotator.Start(rootCtx)
	log.Printf("Hero rotator started with %d headlines.", len(cfg.HeroHeadlines))

	// 6. Outbound integrations (nil when unconfigured)
	slackNotifier := integrations.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackLeadsChannel)
	notionExporter := integrations.NewNotionExporter(cfg.NotionToken, cfg.NotionLeadsDB)
	if notionExporter != nil {
		if err := notionExporter.TestConnection(rootCtx); err != nil {
			log.Printf("WARN: Notion connection test failed: %v", err)
		}
	}
	transcriptSender := transcript.NewSender(cfg.TranscriptURL, cfg.TranscriptToken)
	if !transcriptSender.Configured() {
		log.Println("WARN: TRANSCRIPT_FUNCTION_URL not set, transcripts will be dropped.")
	}

	// 7. Background jobs
	jobClient, err := jobs.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create job client: %v", err)
	}
	defer jobClient.Close()

	// 8. Services
	authService := services.NewAuthService(pgStore, cfg)
	settingsService, err := services.NewSettingsService(pgStore, redisCache, cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize settings service: %v", err)
	}
	contentService := services.NewContentService(pgStore, rotator)
	crmService := services.NewCRMService(pgStore, cfg.LeadOwner, slackNotifier, notionExporter)
	chatService := services.NewChatService(pgStore, cfg, hub, jobClient, transcriptSender, slackNotifier, notionExporter)
	billingService := services.NewBillingService(pgStore)
	log.Println("Services initialized.")

	// 9. Job worker (same process as the API)
	jobServer, err := jobs.NewServer(cfg.RedisURL, chatService)
	if err != nil {
		log.Fatalf("FATAL: Unable to create job server: %v", err)
	}
	if err := jobServer.Start(); err != nil {
		log.Fatalf("FATAL: Unable to start job server: %v", err)
	}
	log.Println("Job worker started.")

	// 10. Handlers and router
	routerDeps := api.RouterDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		PublicHandler:   handlers.NewPublicHandler(contentService, crmService, settingsService),
		ChatHandler:     handlers.NewChatHandler(chatService, hub, cfg.JWTSecret),
		ContentHandler:  handlers.NewContentHandler(contentService),
		CRMHandler:      handlers.NewCRMHandler(crmService),
		BillingHandler:  handlers.NewBillingHandler(billingService),
		SettingsHandler: handlers.NewSettingsHandler(settingsService),
		UploadHandler:   handlers.NewUploadHandler(fileStore),
		Config:          cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 11. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	rootCancel() // stops the rotator

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	jobServer.Shutdown()
	log.Println("Server shutdown complete.")
}
