package config

import "time"

// Store backend identifiers
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Default configuration values
const (
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultLogFormat        = "text"
	DefaultEnvironment      = "dev"
	DefaultStore            = StoreSQLite
	DefaultSQLitePath       = "data/jobs.db"
	DefaultCatalogPath      = "configs/jobs.json"
	DefaultDeadLetterPath   = "data/payouts.deadletter.jsonl"
	DefaultMaxJobsPerPlayer = 3
	DefaultSaveInterval     = 5 * time.Minute
	DefaultGatewayWorkers   = 4
	DefaultGatewayQueueSize = 1024
	DefaultGatewayRetries   = 3
	DefaultGatewayDelay     = 2 * time.Second
	DefaultIntakeBuffer     = 4096
	DefaultIntakeWorkers    = 2
)
