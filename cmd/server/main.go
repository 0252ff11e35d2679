package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/amqp"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/config"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/db"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/handlers"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/policy"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}
	if err := db.Seed(conn); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// Sessions only stay valid while their user still exists.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		conn.Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	gate := policy.NewGate(conn, 5*time.Minute)

	var publisher handlers.BackupPublisher
	if cfg.AMQP.Configured() {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			log.Printf("AMQP unavailable, backups disabled: %v", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	appHandler := NewApp(conn, gate, publisher)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
