package main

import (
	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logging"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Fitness Tracker API
// @version 1.0
// @description Routines synced between a local SQLite cache and MongoDB, plus workout history.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logOutput := logging.Setup(cfg.Log)
	defer logOutput.Close()
	log.Printf("Starting Fitness Tracker Server in %s mode...", cfg.Backend.Mode)

	// --- Local Store ---
	store := sqlite.NewStore(cfg.Local.Path)
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("ERROR: Failed to close local store: %v", err)
		}
	}()
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(schemaCtx); err != nil {
		cancelSchema()
		log.Fatalf("FATAL: Could not prepare local store %s: %v", store.Path(), err)
	}
	cancelSchema()
	log.Printf("Local store ready at %s.", store.Path())

	// --- Remote Store (remote mode only) ---
	var (
		remote      repository.RemoteRoutineStore
		authService service.AuthService
	)
	if cfg.Backend.Mode == config.BackendRemote {
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
			log.Println("Index creation process completed.")
		}()

		remote = mongo.NewMongoRoutineRepository(appDB)
		authService = service.NewAuthService(mongo.NewMongoUserRepository(appDB), cfg.JWT.Secret, cfg.JWT.Expiration)
	}

	// --- Object Storage (optional) ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("S3 not configured, history export disabled.")
	}

	// --- Services ---
	historyRepo := sqlite.NewHistoryRepository(store)
	routineService := service.NewRoutineService(sqlite.NewRoutineCache(store), remote, nil, logging.New(logOutput, "routines"))
	historyService := service.NewHistoryService(historyRepo, logging.New(logOutput, "history"))
	exportService := service.NewExportService(historyRepo, fileStorage, nil, logging.New(logOutput, "export"))

	// --- HTTP ---
	gin.DefaultWriter = logOutput
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, routineService, historyService, exportService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
