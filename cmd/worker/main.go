// The worker consumes queued backup jobs: it zips the SQLite database
// file and mails it to the configured address. Runs separately from
// the web server so backups never block ledger requests.
package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/amqp"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/config"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/mail"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if !cfg.AMQP.Configured() {
		log.Fatal("AMQP_URL is required for the worker")
	}
	if !cfg.SMTP.Configured() {
		log.Fatal("SMTP_USER / SMTP_PASSWORD / BACKUP_TO are required for the worker")
	}

	client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		log.Fatalf("Failed to connect to AMQP: %v", err)
	}
	defer client.Close()

	mailer := mail.New(cfg.SMTP)
	dbPath := cfg.Database.SQLitePath

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received")
		cancel()
	}()

	err = client.ConsumeBackups(ctx, func(msg *amqp.BackupMessage) error {
		log.Printf("backup requested by user %d at %s", msg.RequestedBy, msg.Timestamp.Format(time.RFC3339))
		return sendBackup(mailer, dbPath)
	})
	if err != nil && err != context.Canceled {
		log.Fatalf("Consumer stopped: %v", err)
	}
	log.Println("Worker stopped gracefully")
}

// sendBackup zips the database file and mails it.
func sendBackup(mailer *mail.Mailer, dbPath string) error {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return fmt.Errorf("read database: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(filepath.Base(dbPath))
	if err != nil {
		return fmt.Errorf("zip entry: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("zip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip close: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	subject := "Sauvegarde Caisse - " + today
	body := "Sauvegarde automatique de la base Caisse."
	filename := fmt.Sprintf("caisse_backup_%s.zip", today)
	if err := mailer.SendWithAttachment(subject, body, filename, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("backup mailed (%d bytes compressed)", buf.Len())
	return nil
}
