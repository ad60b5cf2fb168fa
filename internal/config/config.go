package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (media reference storage)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Delivery pipeline Configuration
	Delivery DeliveryConfig `json:"delivery"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	MessagingServicePort string `json:"messaging_service_port"`
	MediaServicePort     string `json:"media_service_port"`
	Host                 string `json:"host"`
	ReadTimeout          int    `json:"read_timeout"`
	WriteTimeout         int    `json:"write_timeout"`
	Environment          string `json:"environment"` // development, staging, production
	MediaBaseURL         string `json:"media_base_url"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoDBConfig contains the media reference store configuration
type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// DeliveryConfig tunes the outbox retry machinery
type DeliveryConfig struct {
	Workers           int  `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int  `json:"channel_buffer_size"` // Outbox channel buffer size
	MaxRetries        int  `json:"max_retries"`         // Max retry attempts per send
	RetryDelay        int  `json:"retry_delay"`         // Seconds between retries
	Enabled           bool `json:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig builds the full configuration from the environment,
// loading .env first when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			MessagingServicePort: getEnv("MESSAGING_SERVICE_PORT", "7001"),
			MediaServicePort:     getEnv("MEDIA_SERVER_PORT", "8080"),
			Host:                 getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:          getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:         getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:          getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "campuslink"),
			Password:     getEnv("MYSQL_PASSWORD", "campuslink123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "campuslink"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "campuslink"),
		},
		Delivery: DeliveryConfig{
			Workers:           getEnvAsInt("DELIVERY_WORKERS", 5),
			ChannelBufferSize: getEnvAsInt("DELIVERY_BUFFER_SIZE", 1000),
			MaxRetries:        getEnvAsInt("DELIVERY_MAX_RETRIES", 3),
			RetryDelay:        getEnvAsInt("DELIVERY_RETRY_DELAY", 5),
			Enabled:           getEnv("DELIVERY_ENABLED", "true") == "true",
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if cfg.Server.MediaBaseURL = os.Getenv("MEDIA_BASE_URL"); cfg.Server.MediaBaseURL == "" {
		cfg.Server.MediaBaseURL = fmt.Sprintf("http://localhost:%s/media", cfg.Server.MediaServicePort)
	}

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			cfg.MongoDB.Username,
			cfg.MongoDB.Password,
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
			cfg.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
