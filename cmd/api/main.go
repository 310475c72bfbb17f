package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conformis-app/conformigo/internal/ai"
	"github.com/conformis-app/conformigo/internal/config"
	"github.com/conformis-app/conformigo/internal/database"
	"github.com/conformis-app/conformigo/internal/handlers"
	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/storage"
	"github.com/conformis-app/conformigo/internal/store"
	"github.com/conformis-app/conformigo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Select the snapshot backend
	var (
		backend storage.Backend
		db      *database.DB
	)
	switch cfg.Storage.Driver {
	case "postgres":
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Println("🚀 Synchronizing database schema...")
		if err := db.AutoMigrate(&models.WorkspaceSnapshot{}); err != nil {
			log.Printf("⚠️ Migration warning: %v\n", err)
		} else {
			log.Println("✅ Schema synchronized successfully")
		}
		backend = storage.NewGormBackend(db)
	case "file":
		backend, err = storage.NewFileBackend(cfg.Storage.DataDir, cfg.Storage.MaxBytes)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
	default:
		log.Fatalf("Unknown storage driver: %s", cfg.Storage.Driver)
	}

	// 3. Load the workspace into memory
	st := store.New(backend)
	if err := st.Load(); err != nil {
		log.Fatalf("Failed to load workspace: %v", err)
	}

	// 4. Wire the live-update hub to workspace events
	hub := websocket.NewHub()
	go hub.Run()
	st.Subscribe(func(ev store.Event) {
		hub.Broadcast(ev)
	})

	// 5. Document intelligence
	analyzer := ai.NewAnalyzer(cfg.GeminiModel)

	// 6. HTTP router
	router := handlers.NewRouter(cfg, st, analyzer, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s [storage: %s]\n", cfg.Port, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if db != nil {
		log.Println("🛑 Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
}
