package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/notegen/pkg/validator"

	"github.com/johnquangdev/notegen/internal/adapter/handler"
	"github.com/johnquangdev/notegen/internal/adapter/repository"
	"github.com/johnquangdev/notegen/internal/domain/repositories"
	"github.com/johnquangdev/notegen/internal/infrastructure/cache"
	"github.com/johnquangdev/notegen/internal/infrastructure/database"
	notesuse "github.com/johnquangdev/notegen/internal/usecase/notes"
	pkgai "github.com/johnquangdev/notegen/pkg/ai"
	"github.com/johnquangdev/notegen/pkg/config"
)

// @title           Notegen API
// @version         1.0
// @description     Note-generation service routing meeting transcripts through remote or local inference engines

// @host      localhost:8080
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database. The registries are optional: without a database
	// the service still generates notes, it just cannot offer folder or
	// template suggestions backed by stored registries.
	var templateRepo repositories.TemplateRegistry
	var folderRepo repositories.FolderRegistry

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Printf("⚠️  Database unavailable, registries disabled: %v", err)
	} else {
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
			}
			log.Println("🔄 Running migrations (development only) ...")
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		} else {
			log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
		}

		templateRepo = repository.NewTemplateRepository(db)
		folderRepo = repository.NewFolderRepository(db)
	}

	// Initialize preference store: Redis when available, in-memory otherwise
	log.Println("📦 Connecting to Redis...")
	var prefs repositories.PreferenceStore
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, using in-memory preference store: %v", err)
		prefs = cache.NewMemoryStore()
	} else {
		defer redisClient.Close()
		prefs = cache.NewRedisStore(redisClient)
	}

	// Initialize engine clients
	log.Println("🤖 Initializing engine clients...")
	remoteClient := pkgai.NewRemoteClient(&cfg.Remote)
	localClient := pkgai.NewLocalClient(&cfg.Local)
	if remoteClient.Configured() {
		log.Println("✅ Remote engine configured")
	} else {
		log.Println("⚠️  Remote engine not configured; only the local engine can serve")
	}

	// Initialize note service
	log.Println("📝 Initializing note service...")
	noteService := notesuse.NewNoteService(remoteClient, localClient, prefs, templateRepo, cfg, logger)

	// Initialize handlers
	notesController := handler.NewNotesController(noteService, templateRepo, folderRepo, logger)
	engineController := handler.NewEngineController(noteService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, notesController, engineController)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
