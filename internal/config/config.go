package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Auth provider: "local" keeps bcrypt credentials in the database,
	// "cognito" delegates to an AWS Cognito user pool.
	AuthProvider    string
	AWSRegion       string
	CognitoClientID string

	// AI summaries
	AIAPIKey         string
	AIAPIKeySecretID string
	AIModel          string
	AIBaseURL        string
	AITimeout        time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "branhox"),
		DBPassword:    getEnv("DB_PASSWORD", "branhox"),
		DBName:        getEnv("DB_NAME", "branhox"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		AuthProvider:    getEnv("AUTH_PROVIDER", "local"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		CognitoClientID: getEnv("COGNITO_CLIENT_ID", ""),

		AIAPIKey:         getEnv("AI_API_KEY", ""),
		AIAPIKeySecretID: getEnv("AI_API_KEY_SECRET_ID", ""),
		AIModel:          getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIBaseURL:        getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com"),
	}

	config.JWTExpirationDur = parseDuration("JWT_EXPIRES_IN", "24h", 24*time.Hour)
	config.AITimeout = parseDuration("AI_TIMEOUT", "30s", 30*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// UseCognito reports whether sign-up and sign-in go through Cognito.
func (c *Config) UseCognito() bool {
	return c.AuthProvider == "cognito"
}

func parseDuration(key, def string, fallback time.Duration) time.Duration {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, fallback)
		return fallback
	}
	return d
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
