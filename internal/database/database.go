package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dispatchd/dispatchd/config"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// GetConnectionPoolSettings returns connection pool settings based on environment
func GetConnectionPoolSettings() (maxOpen, maxIdle int, maxLifetime time.Duration) {
	environment := os.Getenv("ENVIRONMENT")

	// Use smaller pools for test environment to conserve connections
	if environment == "test" || os.Getenv("INTEGRATION_TESTS") == "true" {
		return 10, 5, 2 * time.Minute
	}

	// Production settings
	return 25, 25, 20 * time.Minute
}

// GetDSN returns the DSN for the service database
func GetDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// Connect opens the service database, verifies the connection and makes
// sure the schema exists.
func Connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", GetDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := InitializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return db, nil
}

// InitializeSchema creates the tables and indexes if they don't exist
func InitializeSchema(db *sql.DB) error {
	for _, query := range tableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// tableDefinitions holds the schema of the two service tables. The
// scheduler depends on the (status) and (scheduled_at) indexes; topic
// aggregations depend on (topic_id); callback correlation on (message_id).
var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS email_requests (
		id BIGSERIAL PRIMARY KEY,
		topic_id TEXT NOT NULL DEFAULT '',
		message_id TEXT,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		content TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		status SMALLINT NOT NULL DEFAULT 0,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_requests_status ON email_requests(status)`,
	`CREATE INDEX IF NOT EXISTS idx_email_requests_scheduled_at ON email_requests(scheduled_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_email_requests_topic_id ON email_requests(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_email_requests_message_id ON email_requests(message_id)`,
	`CREATE TABLE IF NOT EXISTS email_results (
		id BIGSERIAL PRIMARY KEY,
		request_id BIGINT NOT NULL REFERENCES email_requests(id),
		status TEXT NOT NULL,
		raw TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_results_status ON email_results(status)`,
}
