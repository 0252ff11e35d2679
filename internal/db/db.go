// Package db opens the database connection and applies schema
// migrations and seed data.
package db

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/config"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a
// lib/pq key=value list, trims quotes and whitespace, and defaults
// sslmode to disable for key=value form.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// Open connects to PostgreSQL when a DSN is configured, otherwise to
// the local SQLite file.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN != "" {
		return gorm.Open(postgres.Open(NormalizeDSN(cfg.DSN)), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

// Migrate applies GORM auto-migrations for all journal models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.InviteToken{},
		&models.Category{},
		&models.Operation{},
	); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// defaultCategories mirrors the labels the journal ships with.
var defaultCategories = []string{
	"loyer", "internet", "eau", "CIE", "matériel",
	"transport", "nourriture", "facebook", "divers", "vente",
}

// Seed creates the default categories when they are missing.
// Idempotent; safe to run on every startup.
func Seed(db *gorm.DB) error {
	for _, name := range defaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if count == 0 {
			if err := db.Create(&models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
	}
	return nil
}
