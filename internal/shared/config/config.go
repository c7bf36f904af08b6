package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the process reads at startup, all of it comes from
// environment variables (a .env file is loaded if present)
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// bounded retry count for the optimistic-concurrency loop in PlaceBid
	BidMaxRetries int
	// how often the close-expired sweep runs
	CloseSweepInterval time.Duration
}

// Load reads the process config, falling back to sane local-dev defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":9000"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "auctionhouse"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-do-not-use"),
		BidMaxRetries:      getEnvInt("BID_MAX_RETRIES", 3),
		CloseSweepInterval: getEnvDuration("CLOSE_SWEEP_INTERVAL", time.Minute),
	}
}

// PostgresDSN builds the connection string used by both pgxpool and golang-migrate
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
