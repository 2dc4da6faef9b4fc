package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for admin endpoint authentication

	// Store selects the ledger backend: "postgres" or "sqlite"
	Store      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	SQLitePath string

	// CatalogPath is the job catalog JSON file
	CatalogPath string

	// MaxJobsPerPlayer bounds how many jobs a player can join
	MaxJobsPerPlayer int

	// SaveInterval is how often the ledger is flushed to the store
	SaveInterval time.Duration

	// Gateway tuning
	GatewayWorkers    int
	GatewayQueueSize  int
	GatewayMaxRetries int
	GatewayRetryDelay time.Duration
	DeadLetterPath    string

	// Inbound event intake tuning
	IntakeBuffer  int
	IntakeWorkers int

	// Economy plugin endpoint; empty disables payout delivery
	EconomyURL    string
	EconomyAPIKey string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		ServiceName: getEnv("SERVICE_NAME", "jobs-engine"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		APIKey:      getEnv("API_KEY", ""),
		Store:       getEnv("STORE", DefaultStore),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "jobs"),
		SQLitePath:  getEnv("SQLITE_PATH", DefaultSQLitePath),
		CatalogPath: getEnv("CATALOG_PATH", DefaultCatalogPath),

		DeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		EconomyURL:    getEnv("ECONOMY_URL", ""),
		EconomyAPIKey: getEnv("ECONOMY_API_KEY", ""),
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	cfg.MaxJobsPerPlayer, err = getEnvInt("MAX_JOBS_PER_PLAYER", DefaultMaxJobsPerPlayer)
	if err != nil {
		return nil, err
	}
	if cfg.MaxJobsPerPlayer < 1 {
		return nil, fmt.Errorf("MAX_JOBS_PER_PLAYER must be at least 1, got %d", cfg.MaxJobsPerPlayer)
	}

	cfg.SaveInterval, err = getEnvDuration("SAVE_INTERVAL", DefaultSaveInterval)
	if err != nil {
		return nil, err
	}

	cfg.GatewayWorkers, err = getEnvInt("GATEWAY_WORKERS", DefaultGatewayWorkers)
	if err != nil {
		return nil, err
	}
	cfg.GatewayQueueSize, err = getEnvInt("GATEWAY_QUEUE_SIZE", DefaultGatewayQueueSize)
	if err != nil {
		return nil, err
	}
	cfg.GatewayMaxRetries, err = getEnvInt("GATEWAY_MAX_RETRIES", DefaultGatewayRetries)
	if err != nil {
		return nil, err
	}
	cfg.GatewayRetryDelay, err = getEnvDuration("GATEWAY_RETRY_DELAY", DefaultGatewayDelay)
	if err != nil {
		return nil, err
	}

	cfg.IntakeBuffer, err = getEnvInt("INTAKE_BUFFER", DefaultIntakeBuffer)
	if err != nil {
		return nil, err
	}
	cfg.IntakeWorkers, err = getEnvInt("INTAKE_WORKERS", DefaultIntakeWorkers)
	if err != nil {
		return nil, err
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreSQLite {
		return nil, fmt.Errorf("invalid STORE value %q: must be %q or %q", cfg.Store, StorePostgres, StoreSQLite)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
