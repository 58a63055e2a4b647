package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential backends understood by the credential package
const (
	CredentialBackendKeyring = "keyring"
	CredentialBackendFile    = "file"
	CredentialBackendMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Remote order backend
	API APIConfig

	// Local dashboard server
	Server ServerConfig

	// Persisted credential slot
	Credential CredentialConfig

	// Local submission log
	Database DatabaseConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the remote backend configuration
type APIConfig struct {
	BaseURL string // e.g. http://localhost:5000/api
}

// ServerConfig holds the dashboard listener configuration
type ServerConfig struct {
	ListenAddr  string
	CORSOrigins []string
}

// CredentialConfig selects where the bearer token is kept
type CredentialConfig struct {
	Backend string // keyring, file, memory
	File    string // used by the file backend
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := strings.TrimRight(getEnv("ORDERDESK_API_URL", "http://localhost:5000/api"), "/")

	listenAddr := getEnv("ORDERDESK_LISTEN_ADDR", "127.0.0.1:8080")

	var origins []string
	for _, origin := range strings.Split(os.Getenv("ORDERDESK_CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	backend := strings.ToLower(getEnv("ORDERDESK_CREDENTIAL_BACKEND", CredentialBackendKeyring))
	switch backend {
	case CredentialBackendKeyring, CredentialBackendFile, CredentialBackendMemory:
	default:
		return nil, fmt.Errorf("invalid ORDERDESK_CREDENTIAL_BACKEND %q, must be one of: keyring, file, memory", backend)
	}

	credentialFile := os.Getenv("ORDERDESK_CREDENTIAL_FILE")
	if credentialFile == "" {
		path, err := defaultCredentialFile()
		if err != nil {
			return nil, err
		}
		credentialFile = path
	}

	// Database URL - default to ./orderdesk.sqlite
	dbURL := getEnv("DATABASE_URL", "orderdesk.sqlite")

	// Logging configuration - console output suits a local tool
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "console")

	return &Config{
		API: APIConfig{
			BaseURL: apiURL,
		},
		Server: ServerConfig{
			ListenAddr:  listenAddr,
			CORSOrigins: origins,
		},
		Credential: CredentialConfig{
			Backend: backend,
			File:    credentialFile,
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// defaultCredentialFile returns ~/.config/orderdesk/credentials.yaml
func defaultCredentialFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "orderdesk", "credentials.yaml"), nil
}
