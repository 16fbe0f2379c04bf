package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Service names used to select per-service defaults.
const (
	ServiceProduct = "product-service"
	ServiceCart    = "cart-service"
	ServiceSetup   = "setup"
)

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

const (
	defaultJWTSecret        = "change-this-secret-key-in-production-min-32-chars"
	defaultDynamoDBEndpoint = "http://localhost:8000"
	minJWTSecretLength      = 32
)

// Config holds all application configuration.
type Config struct {
	Env            string
	Service        string
	Server         ServerConfig
	Storage        StorageConfig
	Database       DatabaseConfig
	DynamoDB       DynamoDBConfig
	Logger         LoggerConfig
	Auth           AuthConfig
	ProductService ProductServiceConfig
	CORS           CORSConfig
	Seed           SeedConfig
	S3             S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string // "postgres" or "dynamodb"
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int    // seconds
	ApplicationName string // reported to Postgres; defaults to the service name
}

// DynamoDBConfig holds DynamoDB client and table configuration.
type DynamoDBConfig struct {
	Region          string
	Endpoint        string // empty means the AWS regional endpoint
	AccessKeyID     string
	SecretAccessKey string
	ProductsTable   string
	CartsTable      string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	UseCognito      bool
	Cognito         CognitoConfig
}

// CognitoConfig identifies the Cognito user pool that issues access tokens.
type CognitoConfig struct {
	UserPoolID  string
	Region      string
	WebClientID string
}

// ProductServiceConfig locates the Product Service for the Cart Service.
type ProductServiceConfig struct {
	URL            string
	TimeoutSeconds int
}

// CORSConfig holds the allowed browser origins.
type CORSConfig struct {
	Origins []string
}

// SeedConfig controls catalogue seeding.
type SeedConfig struct {
	OnStart bool
	File    string // empty means the built-in sample catalogue
}

// S3Config holds AWS S3 configuration for catalogue seed files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// Load loads configuration from environment variables for the named service.
// In the local environment, .env files are read first without overriding
// variables that are already set.
func Load(service string) (*Config, error) {
	env := getEnv("ENV", "local")
	if env == "local" {
		if err := loadDotEnv(); err != nil {
			return nil, err
		}
	}

	defaultPort := 8001
	if service == ServiceCart {
		defaultPort = 8002
	}

	cfg := &Config{
		Env:     env,
		Service: service,
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("PORT", defaultPort),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", BackendDynamoDB),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "ecom"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "ecom"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			ApplicationName: getEnv("DB_APPLICATION_NAME", service),
		},
		DynamoDB: DynamoDBConfig{
			Region:          getEnv("AWS_REGION", "us-west-2"),
			Endpoint:        getEnv("DYNAMODB_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "dummy"),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "dummy"),
			ProductsTable:   getEnv("PRODUCTS_TABLE_NAME", "ecom-products"),
			CartsTable:      getEnv("CARTS_TABLE_NAME", "ecom-carts"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET_KEY", defaultJWTSecret),
			TokenTTLMinutes: getEnvAsInt("JWT_TTL_MINUTES", 30),
			UseCognito:      getEnvAsBool("USE_COGNITO_AUTH", false),
			Cognito: CognitoConfig{
				UserPoolID:  getEnv("COGNITO_USER_POOL_ID", ""),
				Region:      getEnv("COGNITO_USER_POOL_REGION", "us-west-2"),
				WebClientID: getEnv("COGNITO_WEB_CLIENT_ID", ""),
			},
		},
		ProductService: ProductServiceConfig{
			URL:            strings.TrimRight(getEnv("PRODUCT_SERVICE_URL", "http://localhost:8001/api"), "/"),
			TimeoutSeconds: getEnvAsInt("PRODUCT_SERVICE_TIMEOUT_SECONDS", 10),
		},
		CORS: CORSConfig{
			Origins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Seed: SeedConfig{
			OnStart: getEnvAsBool("SEED_ON_START", false),
			File:    getEnv("SEED_FILE", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-west-2"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
	}

	// DynamoDB Local is only used in the local environment.
	if cfg.IsLocal() && cfg.DynamoDB.Endpoint == "" {
		cfg.DynamoDB.Endpoint = defaultDynamoDBEndpoint
	} else if !cfg.IsLocal() {
		cfg.DynamoDB.Endpoint = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"local":   true,
		"dev":     true,
		"staging": true,
		"prod":    true,
	}

	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be local, dev, staging, or prod)", c.Env)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Storage.Backend {
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendDynamoDB:
		if err := c.DynamoDB.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be postgres or dynamodb)", c.Storage.Backend)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTSecretLength)
	}

	if c.IsProduction() && strings.Contains(c.Auth.JWTSecret, "change-this-secret-key") {
		return fmt.Errorf("JWT secret key must be changed for production environment")
	}

	if c.Auth.TokenTTLMinutes < 1 {
		return fmt.Errorf("JWT TTL must be at least 1 minute")
	}

	if c.Auth.UseCognito {
		if c.Auth.Cognito.UserPoolID == "" {
			return fmt.Errorf("Cognito user pool ID is required when Cognito auth is enabled")
		}
		if c.Auth.Cognito.WebClientID == "" {
			return fmt.Errorf("Cognito web client ID is required when Cognito auth is enabled")
		}
		if c.Auth.Cognito.Region == "" {
			return fmt.Errorf("Cognito region is required when Cognito auth is enabled")
		}
	}

	if c.Service == ServiceCart {
		if c.ProductService.URL == "" {
			return fmt.Errorf("product service URL is required")
		}
		if c.ProductService.TimeoutSeconds < 1 {
			return fmt.Errorf("product service timeout must be at least 1 second")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

func (c *DynamoDBConfig) validate() error {
	if c.Region == "" {
		return fmt.Errorf("AWS region is required for DynamoDB")
	}

	if c.ProductsTable == "" || c.CartsTable == "" {
		return fmt.Errorf("DynamoDB table names are required")
	}

	return nil
}

// IsLocal reports whether the service runs in the local environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Issuer returns the token issuer URL of the user pool.
func (c *CognitoConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL returns the URL of the user pool's JSON Web Key Set.
func (c *CognitoConfig) JWKSURL() string {
	return c.Issuer() + "/.well-known/jwks.json"
}

// loadDotEnv loads the first .env file found in the working directory or
// its parents. Missing files are not an error; a file that does not parse is.
func loadDotEnv() error {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			return nil
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
