package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const VERSION = "1.2"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	SES         SESConfig
	Dispatch    DispatchConfig
	JWTSecret   string
	SentryDSN   string
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
	// URL is the externally reachable base URL, used to build the
	// open-pixel link embedded in outgoing bodies.
	URL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SESConfig struct {
	Region    string
	FromEmail string
}

// DispatchConfig tunes the send pipeline.
type DispatchConfig struct {
	MaxSendPerSecond  int
	SendQueueSize     int
	OutcomeQueueSize  int
	SchedulerBatch    int
	SchedulerPollSecs int
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dispatchd")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("AWS_REGION", "ap-northeast-2")
	v.SetDefault("AWS_SES_FROM_EMAIL", "")
	v.SetDefault("MAX_SEND_PER_SECOND", 24)
	v.SetDefault("SEND_QUEUE_SIZE", 10000)
	v.SetDefault("OUTCOME_QUEUE_SIZE", 1000)
	v.SetDefault("SCHEDULER_BATCH_SIZE", 1000)
	v.SetDefault("SCHEDULER_POLL_SECONDS", 60)
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	maxSend := v.GetInt("MAX_SEND_PER_SECOND")
	if maxSend <= 0 {
		maxSend = 24
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			URL:  v.GetString("SERVER_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		SES: SESConfig{
			Region:    v.GetString("AWS_REGION"),
			FromEmail: v.GetString("AWS_SES_FROM_EMAIL"),
		},
		Dispatch: DispatchConfig{
			MaxSendPerSecond:  maxSend,
			SendQueueSize:     v.GetInt("SEND_QUEUE_SIZE"),
			OutcomeQueueSize:  v.GetInt("OUTCOME_QUEUE_SIZE"),
			SchedulerBatch:    v.GetInt("SCHEDULER_BATCH_SIZE"),
			SchedulerPollSecs: v.GetInt("SCHEDULER_POLL_SECONDS"),
		},
		JWTSecret:   jwtSecret,
		SentryDSN:   v.GetString("SENTRY_DSN"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
