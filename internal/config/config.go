// Package config provides application configuration loaded from
// environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	AMQP     AMQPConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects the storage backend. When DSN is empty the
// app runs on the local SQLite file, like the original deployment.
type DatabaseConfig struct {
	// DSN is a PostgreSQL connection string (URL or key=value form).
	DSN string
	// SQLitePath is the fallback database file.
	SQLitePath string
}

// SMTPConfig holds the mail settings used by the backup worker.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Configured reports whether enough is set to send backup mail.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != "" && s.To != ""
}

// AMQPConfig holds the broker settings for fire-and-forget jobs.
type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// Configured reports whether a broker URL is set.
func (a AMQPConfig) Configured() bool { return a.URL != "" }

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			DSN:        getEnv("DATABASE_DSN", ""),
			SQLitePath: getEnv("SQLITE_PATH", "caisse.db"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 465),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			To:       getEnv("BACKUP_TO", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "caisse"),
			Queue:    getEnv("AMQP_QUEUE", "caisse.backup"),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a
// default. Accepts "1", "true", "yes" as true.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
