// Package main is the entry point for the PDF Replace server.
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

	"github.com/Shimizu-Technology/pdf-replace/internal/config"
	"github.com/Shimizu-Technology/pdf-replace/internal/router"
	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
	"github.com/Shimizu-Technology/pdf-replace/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PDF Replace %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, max_upload=%dMB, session_ttl=%s",
		cfg.Port, cfg.GinMode, cfg.MaxUploadMB, cfg.SessionTTL)

	os.Setenv("GIN_MODE", cfg.GinMode)

	if cfg.UsingDefaultSecret() {
		log.Println("⚠️  Using the default session secret (set SESSION_SECRET in production)")
	} else {
		log.Println("✅ Session secret configured")
	}

	// Step 2: Create the Session Store
	// Uploads live in memory until the TTL evicts them; nothing touches disk.
	store := session.NewStore(cfg.SessionTTL)
	log.Println("✅ Session store ready")

	// Step 3: Create the Replacement Service
	// Per-replacement progress lines go to the server log.
	svc := &replace.Service{Report: log.Printf}

	// Step 4: Setup HTTP Router
	r := router.Setup(cfg, store, svc)

	// Step 5: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	// Go Pattern: Block on a signal channel; in-flight requests get a
	// 30-second grace period to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
