package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	Store          string
	MongoURI       string
	MongoDatabase  string
	RedisAddress   string
	RedisPassword  string
	ReportPerDay   int
	JWTSecret      string
	JWTTTL         time.Duration
	UploadDir      string
	UploadMaxBytes int64
	CORSOrigins    []string
	GeminiAPIKeys  []string
	GeminiModel    string

	// Optional admin ensured at startup.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (when present) into the environment and then reads the config.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil
	return ReadConfig(), envLoaded
}

func ReadConfig() *Config {
	return &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Environment: getEnvOrDefault("GO_ENV", "development"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		Store:          getEnvOrDefault("STORE", StoreMongo),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  getEnvOrDefault("MONGODB_DATABASE", "civic"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		ReportPerDay:   getIntOrDefault("REPORT_RATE_LIMIT", 10),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         getDurationOrDefault("JWT_TTL", 30*24*time.Hour),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: int64(getIntOrDefault("UPLOAD_MAX_BYTES", 5<<20)),
		CORSOrigins:    splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		GeminiAPIKeys:  splitList(os.Getenv("GEMINI_API_KEYS")),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		AdminName:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("please define the JWT_SECRET environment variable")
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("please define the MONGODB_URI environment variable")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q, expected %q or %q", c.Store, StoreMongo, StoreMemory)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
